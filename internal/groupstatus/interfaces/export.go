package interfaces

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"liftops-cloud/internal/groupstatus/application"
)

// BuildGridXLSX renders a group status grid as a single-sheet workbook,
// carrying the conditional-format colors through as cell fills.
func BuildGridXLSX(groupName string, grid *application.Grid) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "group status"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Group Status: %s", groupName))

	for i, col := range grid.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, col.Name)
	}

	styles := make(map[string]int)
	for rowIdx, row := range grid.Rows {
		for colIdx, col := range grid.Columns {
			cellRef, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+4)
			if err != nil {
				return nil, err
			}
			cell := row.Cell(col.ID)
			if cell == nil {
				continue
			}
			_ = f.SetCellValue(sheet, cellRef, cell.Value)
			if cell.BackColor == "" && cell.ForeColor == "" {
				continue
			}
			styleID, err := colorStyle(f, styles, cell.BackColor, cell.ForeColor)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellStyle(sheet, cellRef, cellRef, styleID)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func colorStyle(f *excelize.File, cache map[string]int, backColor, foreColor string) (int, error) {
	key := backColor + "|" + foreColor
	if id, ok := cache[key]; ok {
		return id, nil
	}
	style := &excelize.Style{}
	if backColor != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(backColor, "#")}}
	}
	if foreColor != "" {
		style.Font = &excelize.Font{Color: strings.TrimPrefix(foreColor, "#")}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	cache[key] = id
	return id, nil
}

// BuildGridPDF renders a group status grid as a landscape PDF table.
func BuildGridPDF(groupName string, grid *application.Grid) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, fmt.Sprintf("Group Status: %s", groupName))
	pdf.Ln(10)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(grid.Columns))

	pdf.SetFont("Arial", "B", 8)
	for _, col := range grid.Columns {
		pdf.CellFormat(colWidth, 6, col.Name, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range grid.Rows {
		for _, col := range grid.Columns {
			cell := row.Cell(col.ID)
			if cell == nil {
				pdf.CellFormat(colWidth, 6, "", "1", 0, "L", false, 0, "")
				continue
			}
			fill := false
			if r, g, b, ok := parseHexColor(cell.BackColor); ok {
				pdf.SetFillColor(r, g, b)
				fill = true
			}
			if r, g, b, ok := parseHexColor(cell.ForeColor); ok {
				pdf.SetTextColor(r, g, b)
			} else {
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.CellFormat(colWidth, 6, cell.Value, "1", 0, pdfAlign(cell.Align), fill, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pdfAlign(align string) string {
	switch align {
	case "right":
		return "R"
	case "center":
		return "C"
	default:
		return "L"
	}
}

func parseHexColor(value string) (r, g, b int, ok bool) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	parsed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(parsed >> 16 & 0xff), int(parsed >> 8 & 0xff), int(parsed & 0xff), true
}
