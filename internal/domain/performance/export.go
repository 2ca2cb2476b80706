package performance

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const kpiSheet = "KPIs"

var kpiExportHeadings = []string{
	"Metric", "Owner", "Period", "Unit", "Target", "Achieved", "Weightage",
	"Status", "Progress", "Score", "Qualitative Score", "Last Updated",
}

// WriteKPIWorkbook renders kpis as an xlsx workbook with one row per KPI.
func WriteKPIWorkbook(w io.Writer, kpis []KPI) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	if err := f.SetSheetName("Sheet1", kpiSheet); err != nil {
		return err
	}

	for i, heading := range kpiExportHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(kpiSheet, cell, heading); err != nil {
			return err
		}
	}

	for i, k := range kpis {
		qualitative := ""
		if k.QualitativeScore != nil {
			qualitative = fmt.Sprintf("%.2f", *k.QualitativeScore)
		}
		values := []any{
			k.Metric, k.AssignedTo, k.Period, k.Unit, k.Target, k.AchievedValue, k.Weightage,
			k.Status, k.Progress, k.Score, qualitative, k.LastUpdated.UTC().Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(kpiSheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// WriteAppraisalPDF renders a printable appraisal.
func WriteAppraisalPDF(w io.Writer, a Appraisal, employeeName string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Annual Performance Appraisal Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	if employeeName != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", a.Period, a.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", a.Status))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Reviewer score: %.2f", a.ReviewerScore))
	pdf.Ln(7)
	if a.FinalScore != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Final score: %.2f", *a.FinalScore))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	sections := []struct {
		heading string
		body    string
	}{
		{"Achievements", a.Achievements},
		{"Challenges", a.Challenges},
		{"Goals", a.Goals},
		{"Self appraisal", a.SelfAppraisal},
		{"Reviewer comments", a.ReviewerComments},
	}
	for _, section := range sections {
		if strings.TrimSpace(section.body) == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, section.heading)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, section.body, "", "L", false)
		pdf.Ln(4)
	}
	return pdf.Output(w)
}
