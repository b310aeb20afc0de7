package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

type FeedbackHandler struct {
	BaseHandler
	feedback services.FeedbackService
}

func NewFeedbackHandler(feedback services.FeedbackService, logger utils.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler: NewBaseHandler(logger),
		feedback:    feedback,
	}
}

// Submit accepts the public contact form.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	h.LogRequest(c, "Submitting feedback")

	var req services.FeedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	feedback, err := h.feedback.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}
