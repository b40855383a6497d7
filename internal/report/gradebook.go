// Package report exports enrollment results as spreadsheets.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-lms/internal/content"
	"github.com/p-n-ai/pai-lms/internal/enrollment"
)

// GradebookSheet is the name of the worksheet WriteGradebook produces.
const GradebookSheet = "Grades"

const dateLayout = "2006-01-02"

// Columns is the gradebook header row.
var Columns = []string{"User", "Course", "Status", "Score", "Progress", "Enrolled", "Last Accessed"}

// Row is one gradebook line.
type Row struct {
	UserID         string
	CourseTitle    string
	Status         enrollment.Status
	Score          *int
	Progress       int
	EnrolledAt     time.Time
	LastAccessedAt time.Time
}

// BuildRows joins enrollments with course titles. Enrollments for courses
// that are not in the list keep the course ID as their title.
func BuildRows(enrollments []enrollment.Enrollment, courses []content.Course) []Row {
	titles := make(map[string]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}

	rows := make([]Row, 0, len(enrollments))
	for _, e := range enrollments {
		title, ok := titles[e.CourseID]
		if !ok {
			title = e.CourseID
		}
		rows = append(rows, Row{
			UserID:         e.UserID,
			CourseTitle:    title,
			Status:         e.Status,
			Score:          e.Score,
			Progress:       e.Progress,
			EnrolledAt:     e.EnrolledAt,
			LastAccessedAt: e.LastAccessedAt,
		})
	}
	return rows
}

// WriteGradebook writes rows as an XLSX workbook to w.
func WriteGradebook(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", GradebookSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(GradebookSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(GradebookSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		score := ""
		if r.Score != nil {
			score = strconv.Itoa(*r.Score)
		}
		values := []any{
			r.UserID,
			r.CourseTitle,
			string(r.Status),
			score,
			r.Progress,
			r.EnrolledAt.UTC().Format(dateLayout),
			r.LastAccessedAt.UTC().Format(dateLayout),
		}
		if err := f.SetSheetRow(GradebookSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(GradebookSheet, "A", "G", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
