package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/fefu-lab/course-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var rosterHeaders = []string{"#", "Student", "Email", "Faculty", "Status", "Enrolled At"}

// CourseRoster builds an xlsx workbook with one row per enrollment, cancelled
// ones included so the sheet doubles as an audit view.
func (s *exportService) CourseRoster(ctx context.Context, courseID uint) ([]byte, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	enrollments, _, err := s.repo.Enrollment().List(ctx, repositories.EnrollmentFilters{CourseID: &courseID, Limit: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Roster"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	title := fmt.Sprintf("%s — enrollment roster", course.Title)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}

	for i, header := range rosterHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, enrollment := range enrollments {
		row := i + 3
		name := fmt.Sprintf("profile %d", enrollment.ProfileID)
		email := ""
		faculty := ""
		if enrollment.Profile != nil {
			name = enrollment.Profile.FullName()
			email = enrollment.Profile.Email
			faculty = enrollment.Profile.FacultyDisplayName()
		}
		values := []interface{}{
			i + 1,
			name,
			email,
			faculty,
			string(enrollment.Status),
			enrollment.EnrolledAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "B", "D", 28); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "roster exported", "course_id", courseID, "rows", len(enrollments))
	return buf.Bytes(), nil
}
