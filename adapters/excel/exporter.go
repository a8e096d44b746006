// Package excel renders prediction history as an Excel workbook for
// offline review.
package excel

import (
	"fmt"
	"io"

	"winesense/domain/wine"
	"winesense/internal/errors"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet predictions are written to
const SheetName = "Predictions"

var exportColumns = []string{
	"Predicted At",
	"Verdict",
	"Confidence Good",
	"Confidence Not Good",
	"Fixed Acidity",
	"Volatile Acidity",
	"Citric Acid",
	"Residual Sugar",
	"Chlorides",
	"Free Sulfur Dioxide",
	"Total Sulfur Dioxide",
	"Density",
	"pH",
	"Sulphates",
	"Alcohol",
}

// Exporter writes prediction records to xlsx
type Exporter struct{}

// NewExporter creates a new history exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the given records as a workbook to w, newest first as
// supplied by the caller.
func (e *Exporter) Export(records []wine.PredictionRecord, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return errors.Wrap(err, "failed to create worksheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "failed to drop default worksheet")
	}

	for col, name := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.Wrap(err, "failed to address header cell")
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return errors.Wrap(err, "failed to write header cell")
		}
	}

	for i, record := range records {
		values := []interface{}{
			record.CreatedAt.Format("2006-01-02 15:04:05"),
			record.Label.Display(),
			record.PGood,
			record.PNotGood,
			record.Sample.FixedAcidity,
			record.Sample.VolatileAcidity,
			record.Sample.CitricAcid,
			record.Sample.ResidualSugar,
			record.Sample.Chlorides,
			record.Sample.FreeSulfurDioxide,
			record.Sample.TotalSulfurDioxide,
			record.Sample.Density,
			record.Sample.PH,
			record.Sample.Sulphates,
			record.Sample.Alcohol,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to address row")
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+2)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}

// Filename suggests a download name for an export of n records
func Filename(n int) string {
	return fmt.Sprintf("wine-predictions-%d.xlsx", n)
}
