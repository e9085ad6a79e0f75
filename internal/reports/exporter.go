package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	mimeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV   = "text/csv"
	mimePDF   = "application/pdf"
)

// ReportExporter defines the interface for exporting reports in different formats
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct {
	now func() time.Time
}

func NewReportExporter() ReportExporter {
	return &reportExporter{now: time.Now}
}

// table is a report flattened to header + string cells, shared by every format.
type table struct {
	title   string
	sheet   string
	headers []string
	widths  []float64
	rows    [][]string
}

func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	var t table
	switch reportType {
	case ReportTypeRoster:
		t = rosterTable(data)
	case ReportTypeAuditLogs:
		t = auditLogTable(data)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}

	base := fmt.Sprintf("%s_%s_%s", slug(data.EventName), reportType, e.now().Format("20060102_150405"))

	switch format {
	case FormatExcel:
		b, err := t.excel()
		return b, base + ".xlsx", mimeExcel, err
	case FormatCSV:
		b, err := t.csv()
		return b, base + ".csv", mimeCSV, err
	case FormatPDF:
		b, err := t.pdf()
		return b, base + ".pdf", mimePDF, err
	default:
		return nil, "", "", fmt.Errorf("unsupported format for %s: %s", reportType, format)
	}
}

func rosterTable(data ReportData) table {
	t := table{
		title:   "Trip Roster: " + data.EventName,
		sheet:   "Roster",
		headers: []string{"Name", "Email", "Role", "Status", "Added", "Accepted"},
		widths:  []float64{55, 75, 25, 30, 45, 45},
	}
	for _, r := range data.Roster {
		accepted := ""
		if r.AcceptedAt != nil {
			accepted = r.AcceptedAt.Format("2006-01-02 15:04")
		}
		t.rows = append(t.rows, []string{
			r.DisplayName, r.Email, r.Role, r.Status, r.AddedAt.Format("2006-01-02 15:04"), accepted,
		})
	}
	return t
}

func auditLogTable(data ReportData) table {
	t := table{
		title:   "Audit Log: " + data.EventName,
		sheet:   "Audit Logs",
		headers: []string{"ID", "User ID", "Action", "Status", "IP Address", "Timestamp", "Details"},
		widths:  []float64{12, 35, 50, 20, 30, 38, 90},
	}
	for _, l := range data.AuditLogs {
		t.rows = append(t.rows, []string{
			strconv.FormatUint(uint64(l.ID), 10),
			l.UserID,
			l.Action,
			l.Status,
			l.IPAddress,
			l.Timestamp.Format("2006-01-02 15:04:05"),
			l.Details,
		})
	}
	return t
}

func (t table) csv() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.headers); err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t table) excel() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return nil, err
	}

	for i, h := range t.headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(t.sheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(t.headers), 1)
		f.SetCellStyle(t.sheet, "A1", last, style)
	}

	for r, row := range t.rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(t.sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t table) pdf() ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(t.title))
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 9)
	for i, h := range t.headers {
		pdf.CellFormat(t.widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range t.rows {
		for i, v := range row {
			pdf.CellFormat(t.widths[i], 6, tr(fit(pdf, v, t.widths[i])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit truncates v so it stays inside a cell of width w.
func fit(pdf *gofpdf.Fpdf, v string, w float64) string {
	if pdf.GetStringWidth(v) <= w-2 {
		return v
	}
	r := []rune(v)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w-2 {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(name string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if s == "" {
		return "event"
	}
	return s
}
