package usecase

import (
	"bytes"
	"fmt"
	"time"

	"campus-placement-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportColumns = []string{
	"APPLICATION ID", "STUDENT NAME", "EMAIL", "PHONE", "BRANCH", "CGPA", "ACADEMIC YEAR",
	"STATUS", "APPLIED AT", "INTERVIEW DATE", "INTERVIEW MODE", "INTERVIEW LOCATION", "RESUME",
}

// buildApplicationsWorkbook writes one row per application. profiles may
// hold nil entries for students without a profile.
func buildApplicationsWorkbook(job *domain.Job, apps []domain.Application, profiles map[string]*domain.StudentProfile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s - %s", job.Title, job.Company)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 3)
	if err := f.SetCellStyle(sheetName, "A3", endCell, headerStyle); err != nil {
		return nil, err
	}

	for rowIdx, app := range apps {
		row := applicationRow(app, profiles[app.StudentID])
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+4)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func applicationRow(app domain.Application, p *domain.StudentProfile) []interface{} {
	name, email, phone, branch, year, resume := app.StudentID, "", "", "", "", ""
	var cgpa interface{} = ""
	if p != nil {
		name, email, phone = p.FullName, p.Email, p.Phone
		branch, year, resume = p.Branch, p.AcademicYear, p.ResumeURL
		cgpa = p.CGPA
	}

	interviewDate := ""
	if app.InterviewDate != nil {
		interviewDate = app.InterviewDate.Format(time.RFC3339)
	}
	return []interface{}{
		app.ID, name, email, phone, branch, cgpa, year,
		humanStatus(app.Status), app.AppliedAt.Format(time.RFC3339), interviewDate,
		deref(app.InterviewMode), deref(app.InterviewLocation), resume,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
