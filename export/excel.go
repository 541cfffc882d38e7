// Package export materializes collected analysis results as an xlsx report.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/use-agent/ratescope/models"
)

const sheetName = "Analysis"

// XLSXContentType is the MIME type for xlsx downloads.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportFilename derives the download name from the stream session ID.
func ReportFilename(sessionID string) string {
	if len(sessionID) > 8 {
		sessionID = sessionID[:8]
	}
	return fmt.Sprintf("ratemysite_analysis_%s.xlsx", sessionID)
}

// BuildReport renders one row per analyzed site under the fixed column
// schema and returns the finished workbook as an in-memory buffer. Scores
// that parsed as plain integers are written as numbers so spreadsheet math
// works on them; everything else stays text.
func BuildReport(results []models.ParsedFields, rows []models.TableRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F81BD"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	for c, row := range rows {
		cell, cerr := excelize.CoordinatesToCellName(c+1, 1)
		if cerr != nil {
			return nil, fmt.Errorf("export: header cell: %w", cerr)
		}
		if serr := f.SetCellValue(sheetName, cell, row.Label()); serr != nil {
			return nil, fmt.Errorf("export: header cell %s: %w", cell, serr)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(rows))
	if err != nil {
		return nil, fmt.Errorf("export: column name: %w", err)
	}
	if serr := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); serr != nil {
		return nil, fmt.Errorf("export: header row style: %w", serr)
	}
	if werr := f.SetColWidth(sheetName, "A", lastCol, 22); werr != nil {
		return nil, fmt.Errorf("export: column width: %w", werr)
	}

	for r, res := range results {
		for c, row := range rows {
			cell, cerr := excelize.CoordinatesToCellName(c+1, r+2)
			if cerr != nil {
				return nil, fmt.Errorf("export: data cell: %w", cerr)
			}
			value := res[row.Key()]
			if n, nerr := strconv.Atoi(value); nerr == nil {
				err = f.SetCellValue(sheetName, cell, n)
			} else {
				err = f.SetCellValue(sheetName, cell, value)
			}
			if err != nil {
				return nil, fmt.Errorf("export: data cell %s: %w", cell, err)
			}
		}
	}

	if perr := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); perr != nil {
		return nil, fmt.Errorf("export: freeze header: %w", perr)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf, nil
}
