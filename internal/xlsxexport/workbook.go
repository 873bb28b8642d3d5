// Package xlsxexport renders a parse result as an Excel workbook with one
// sheet per table.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"iolist/internal/csvexport"
	"iolist/internal/domain"
)

// Sheet names match the JSON table keys.
const (
	SheetTotalIOList     = "Total IO List"
	SheetIOConfiguration = "IO Configuration"
)

// TotalIOListColumns is the header row of the inventory sheet.
var TotalIOListColumns = []string{
	"Sequence",
	"Position",
	"Component",
	"Subtype",
	"IO Device",
	"Inputs",
	"Outputs",
	"Total IO",
	"Input Cable",
	"Output Cable",
}

// Build creates the workbook for result. The caller owns the returned file
// and must Close it.
func Build(result *domain.ParseResult) (*excelize.File, error) {
	if result.Failed() {
		return nil, domain.ErrRunFailed
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetTotalIOList); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetIOConfiguration); err != nil {
		f.Close()
		return nil, fmt.Errorf("creating sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	inventory := make([][]interface{}, 0, len(result.TotalIOList))
	for i := range result.TotalIOList {
		inventory = append(inventory, deviceCells(&result.TotalIOList[i]))
	}
	if err := writeSheet(f, SheetTotalIOList, TotalIOListColumns, inventory, header); err != nil {
		f.Close()
		return nil, err
	}

	wiring := make([][]interface{}, 0, len(result.IOConfiguration))
	for i := range result.IOConfiguration {
		wiring = append(wiring, wiringCells(&result.IOConfiguration[i]))
	}
	if err := writeSheet(f, SheetIOConfiguration, csvexport.Columns, wiring, header); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write renders result as XLSX into w.
func Write(w io.Writer, result *domain.ParseResult) error {
	f, err := Build(result)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]interface{}, headerStyle int) error {
	head := make([]interface{}, len(columns))
	for i, c := range columns {
		head[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return fmt.Errorf("%s column width: %w", sheet, err)
	}
	return nil
}

func deviceCells(d *domain.IODevice) []interface{} {
	return []interface{}{
		d.Sequence,
		d.Position,
		d.Component,
		d.Subtype,
		d.IODevice,
		d.Inputs,
		deref(d.Outputs),
		d.TotalIO,
		d.InputCable,
		deref(d.OutputCable),
	}
}

func wiringCells(row *domain.IOConfigurationRow) []interface{} {
	var port interface{} = ""
	if row.PortNumber != nil {
		port = *row.PortNumber
	}
	return []interface{}{
		row.IODevice,
		row.SplitterUsed,
		row.PinNumber,
		port,
		row.IOName,
		row.Direction,
		row.IONumber,
		row.CableType,
		row.CableLength,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
