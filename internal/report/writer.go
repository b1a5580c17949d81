package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/lukasmc/cefnav/internal/contracts"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// SheetName is the single sheet all report data lands on
const SheetName = "Sheet1"

// MIMEType is the content type served for downloaded report files
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// methodDescription is the fixed provenance string appended below the data
const methodDescription = "This file was created using cefnav to pull NAV pricing from Yahoo Finance."

// header is the report column order
var header = []interface{}{
	"Fund Name", "Fund Type", "Date", "Fund Ticker", "Fund Close Price",
	"NAV Ticker", "NAV Close Price", "Discount",
	"Shares Outstanding(M)", "Total Debt(M)",
}

// Writer serializes reports to spreadsheet files
type Writer struct {
	outputDir string
	logger    *logger.Logger
}

// NewWriter creates a report writer targeting the given directory
func NewWriter(outputDir string, log *logger.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		logger:    log,
	}
}

// Write materializes the report as an .xlsx file and returns its path.
// Layout: header row, one row per fund, a blank row, then a provenance
// line with the generation timestamp and method description.
func (w *Writer) Write(rep contracts.Report) (string, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), SheetName); err != nil {
		return "", fmt.Errorf("rename sheet failed: %w", err)
	}

	if err := wb.SetSheetRow(SheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("write header failed: %w", err)
	}

	for i, row := range rep.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("cell name failed: %w", err)
		}

		values := rowValues(row)
		if err := wb.SetSheetRow(SheetName, cell, &values); err != nil {
			return "", fmt.Errorf("write row %d failed: %w", i+1, err)
		}
	}

	// One blank row between the data and the provenance line
	footerRow := len(rep.Rows) + 3
	footerCell, err := excelize.CoordinatesToCellName(1, footerRow)
	if err != nil {
		return "", fmt.Errorf("footer cell name failed: %w", err)
	}

	footer := fmt.Sprintf("Downloaded on %s. Method: %s",
		rep.GeneratedAt.Format("2006-01-02 15:04:05"), methodDescription)
	if err := wb.SetCellValue(SheetName, footerCell, footer); err != nil {
		return "", fmt.Errorf("write provenance line failed: %w", err)
	}

	path := filepath.Join(w.outputDir, rep.FileName())
	if err := wb.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook failed: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(rep.Rows),
	}).Info("Report written")

	return path, nil
}

// rowValues flattens a report row into spreadsheet cells.
// Nil numerics become empty cells.
func rowValues(row contracts.ReportRow) []interface{} {
	values := []interface{}{
		row.FundName,
		row.FundType,
		row.Date,
		row.FundTicker,
		nil,
		row.NAVTicker,
		nil,
		nil,
		nil,
		nil,
	}

	if row.FundClose != nil {
		values[4] = *row.FundClose
	}
	if row.NAVClose != nil {
		values[6] = *row.NAVClose
	}
	if row.Discount != nil {
		values[7], _ = row.Discount.Float64()
	}
	if row.SharesOutstandingM != nil {
		values[8], _ = row.SharesOutstandingM.Float64()
	}
	if row.TotalDebtM != nil {
		values[9], _ = row.TotalDebtM.Float64()
	}

	return values
}
