// Package export renders tabular views as CSV, XLSX or PDF downloads.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"carbonpay/internal/service/portfolio"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts csv, xlsx or pdf, case-insensitively. Empty means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Table is a titled grid of already formatted cells.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Write renders t in format f to w.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, t)
	case FormatXLSX:
		return writeXLSX(w, t)
	case FormatPDF:
		return writePDF(w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// CreditsTable is the assets page credit list.
func CreditsTable(a portfolio.Assets) Table {
	t := Table{
		Title:   "Carbon Credits",
		Columns: []string{"ID", "Project", "Total", "Available", "Retired", "Purchase Date"},
	}
	for _, c := range a.Credits {
		t.Rows = append(t.Rows, []string{
			c.ID,
			c.ProjectName,
			strconv.Itoa(c.TotalAmount),
			strconv.Itoa(c.AvailableAmount),
			strconv.Itoa(c.UsedAmount),
			c.PurchaseDate.Format("2006-01-02"),
		})
	}
	return t
}

// EmissionsTable is the emissions page list.
func EmissionsTable(e portfolio.EmissionsOverview) Table {
	t := Table{
		Title:   "Emissions",
		Columns: []string{"ID", "Source", "Amount (tCO2e)", "Offset (tCO2e)", "Offset %", "Date", "Project"},
	}
	for _, r := range e.Rows {
		t.Rows = append(t.Rows, []string{
			r.ID,
			r.Source,
			strconv.Itoa(r.Amount),
			strconv.Itoa(r.Offset),
			strconv.Itoa(r.OffsetPercentage) + "%",
			r.Date.Format("2006-01-02"),
			r.ProjectName,
		})
	}
	return t
}

func writeCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E7D32"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, col := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var value any = v
			if n, err := strconv.Atoi(v); err == nil {
				value = n
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// sheetName trims to the 31 characters a worksheet name allows.
func sheetName(title string) string {
	if title == "" {
		return "Report"
	}
	if len(title) > 31 {
		return title[:31]
	}
	return title
}

func writePDF(w io.Writer, t Table) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(max(len(t.Columns), 1))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(46, 125, 50)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range t.Columns {
		pdf.CellFormat(colWidth, 8, tr(col), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(242, 242, 242)
	for i, row := range t.Rows {
		for _, v := range row {
			pdf.CellFormat(colWidth, 7, tr(v), "1", 0, "L", i%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
