package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	identity   services.IdentityService
	signer     *utils.SessionSigner
	cookieName string
}

func NewAuthHandler(identity services.IdentityService, signer *utils.SessionSigner, cookieName string, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		identity:    identity,
		signer:      signer,
		cookieName:  cookieName,
	}
}

// Register creates an account with its profile and signs the user in.
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req services.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	token, err := h.signer.Issue(user.ID, user.Email)
	if err != nil {
		h.LogError(c, "Failed to issue session", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"profile": user.Profile,
		"token":   token,
	})
}

// Login authenticates by email or username and starts a session. A validated
// ?next= destination is echoed back so the client can resume where it was
// heading before the login redirect.
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Logging in")

	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.identity.Authenticate(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	token, err := h.signer.Issue(user.ID, user.Email)
	if err != nil {
		h.LogError(c, "Failed to issue session", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
		"next":  safeNext(req.Next),
	})
}

// Logout clears the session cookie. The stateless token itself simply expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	h.LogRequest(c, "Changing password")

	var req services.PasswordChangeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	if err := h.identity.ChangePassword(c.Request.Context(), currentUserID(c), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Password changed"})
}

// RequestPasswordReset always responds 200 so the endpoint cannot be used to
// probe registered emails.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	h.LogRequest(c, "Requesting password reset")

	var req services.PasswordResetRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	if err := h.identity.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "If the email is registered, a reset link has been sent",
	})
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	h.LogRequest(c, "Confirming password reset")

	var req services.PasswordResetConfirmRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	if err := h.identity.ConfirmPasswordReset(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Password reset"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.signer.TTL.Seconds())
	c.SetCookie(h.cookieName, token, maxAge, "/", "", false, true)
}

// safeNext keeps redirects on this site: only relative paths survive, so a
// crafted ?next= cannot bounce the user to another host after login.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
