package transfer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"go-ppm-dashboard/internal/model"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

var statusAliases = map[string]model.Status{
	"draft":      model.StatusDraft,
	"草稿":         model.StatusDraft,
	"active":     model.StatusActive,
	"启用":         model.StatusActive,
	"活跃":         model.StatusActive,
	"deprecated": model.StatusDeprecated,
	"停用":         model.StatusDeprecated,
	"废弃":         model.StatusDeprecated,
}

var lifecycleAliases = map[string]model.Lifecycle{
	"planning":    model.LifecyclePlanning,
	"规划":          model.LifecyclePlanning,
	"development": model.LifecycleDevelopment,
	"开发":          model.LifecycleDevelopment,
	"production":  model.LifecycleProduction,
	"量产":          model.LifecycleProduction,
	"生产":          model.LifecycleProduction,
	"sustaining":  model.LifecycleSustaining,
	"维护":          model.LifecycleSustaining,
	"end_of_life": model.LifecycleEndOfLife,
	"停产":          model.LifecycleEndOfLife,
	"退市":          model.LifecycleEndOfLife,
}

// ParseProducts reads a product sheet. Every row is checked before anything
// is returned; any problem yields a *ValidationError listing all of them.
func ParseProducts(r io.Reader, f Format, now time.Time) ([]model.Product, error) {
	rows, err := readRows(r, f)
	if err != nil {
		return nil, err
	}
	return productsFromRows(rows, now)
}

func readRows(r io.Reader, f Format) ([][]string, error) {
	switch f {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte(utf8BOM))))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &ValidationError{Errors: []string{fmt.Sprintf("malformed csv: %v", err)}}
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ValidationError{Errors: []string{fmt.Sprintf("unreadable workbook: %v", err)}}
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ValidationError{Errors: []string{"workbook has no sheets"}}
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func productsFromRows(rows [][]string, now time.Time) ([]model.Product, error) {
	header := -1
	for i, row := range rows {
		if !blank(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, &ValidationError{Errors: []string{"file is empty"}}
	}

	cols := make(map[string]int)
	for i, h := range rows[header] {
		cols[strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))] = i
	}
	var errs []string
	for _, required := range []string{ColID, ColModel, ColName} {
		if _, ok := cols[required]; !ok {
			errs = append(errs, fmt.Sprintf("missing column %s", required))
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	var (
		products []model.Product
		seen     = make(map[string]int)
	)
	for i := header + 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		line := i + 1
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		p := model.Product{
			ID:             cell(ColID),
			Model:          cell(ColModel),
			Name:           cell(ColName),
			Category:       cell(ColCategory),
			Description:    cell(ColDescription),
			Platform:       cell(ColPlatform),
			Family:         cell(ColFamily),
			TargetMarket:   splitList(cell(ColTargetMarket), ",", "，"),
			BOMVersion:     cell(ColBOMVersion),
			ReleaseDate:    cell(ColReleaseDate),
			Specifications: cell(ColSpecification),
			ImageURL:       cell(ColImageURL),
			SerialNumbers:  splitList(cell(ColSerialNumbers), ";", "；"),
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("row %d: %s is required", line, ColID))
		} else if first, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Sprintf("row %d: duplicate %s %q (first seen on row %d)", line, ColID, p.ID, first))
		} else {
			seen[p.ID] = line
		}
		if p.Model == "" {
			errs = append(errs, fmt.Sprintf("row %d: %s is required", line, ColModel))
		}
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("row %d: %s is required", line, ColName))
		}

		if raw := cell(ColTargetCost); raw != "" {
			cost, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
				errs = append(errs, fmt.Sprintf("row %d: %s %q is not a valid number", line, ColTargetCost, raw))
			} else {
				p.TargetCost = cost
			}
		}

		if raw := cell(ColStatus); raw != "" {
			st, ok := statusAliases[strings.ToLower(raw)]
			if !ok {
				errs = append(errs, fmt.Sprintf("row %d: unknown %s %q", line, ColStatus, raw))
			}
			p.Status = st
		} else {
			p.Status = model.StatusDraft
		}

		if raw := cell(ColLifecycle); raw != "" {
			lc, ok := lifecycleAliases[strings.ToLower(raw)]
			if !ok {
				errs = append(errs, fmt.Sprintf("row %d: unknown %s %q", line, ColLifecycle, raw))
			}
			p.Lifecycle = lc
		} else {
			p.Lifecycle = model.LifecycleForStatus(p.Status)
		}

		products = append(products, p)
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	if len(products) == 0 {
		return nil, &ValidationError{Errors: []string{"file has no product rows"}}
	}
	return products, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// splitList splits on any of seps, dropping empty entries.
func splitList(s string, seps ...string) []string {
	if s == "" {
		return []string{}
	}
	for _, sep := range seps[1:] {
		s = strings.ReplaceAll(s, sep, seps[0])
	}
	out := []string{}
	for _, part := range strings.Split(s, seps[0]) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
