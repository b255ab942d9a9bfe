package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go-ppm-dashboard/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	productSheet   = "产品列表"
	costDriftSheet = "成本漂移"
)

// WriteProducts writes products in ProductHeaders column order.
func WriteProducts(w io.Writer, f Format, products []model.Product) error {
	rows := make([][]string, 0, len(products)+1)
	rows = append(rows, ProductHeaders)
	for _, p := range products {
		rows = append(rows, []string{
			p.ID,
			p.Model,
			p.Name,
			p.Category,
			p.Description,
			p.Platform,
			p.Family,
			strings.Join(p.TargetMarket, ","),
			formatFloat(p.TargetCost),
			p.BOMVersion,
			string(p.Lifecycle),
			p.ReleaseDate,
			p.Specifications,
			string(p.Status),
			p.ImageURL,
			strings.Join(p.SerialNumbers, ";"),
		})
	}
	return writeRows(w, f, productSheet, rows)
}

// WriteCostDrift writes the cost-drift table of a dashboard.
func WriteCostDrift(w io.Writer, f Format, drift []model.CostDriftRow) error {
	rows := make([][]string, 0, len(drift)+1)
	rows = append(rows, CostDriftHeaders)
	for _, r := range drift {
		rows = append(rows, []string{
			r.PartID,
			r.PartName,
			r.Supplier,
			formatFloat(r.BaselineCost),
			formatFloat(r.CurrentCost),
			formatFloat(r.Drift),
			strconv.FormatFloat(r.DriftPct, 'f', 2, 64),
		})
	}
	return writeRows(w, f, costDriftSheet, rows)
}

func writeRows(w io.Writer, f Format, sheet string, rows [][]string) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatXLSX:
		return writeXLSX(w, sheet, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

func writeCSV(w io.Writer, rows [][]string) error {
	// BOM so spreadsheet tools detect UTF-8 for the Chinese headers
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, sheet string, rows [][]string) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if _, err := wb.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
