// Package transfer reads and writes product and cost-drift sheets in CSV and
// XLSX form, using the Chinese column labels operators work with.
package transfer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Product sheet columns, in export order.
const (
	ColID            = "产品ID"
	ColModel         = "产品型号"
	ColName          = "产品名称"
	ColCategory      = "产品类别"
	ColDescription   = "产品描述"
	ColPlatform      = "平台"
	ColFamily        = "产品家族"
	ColTargetMarket  = "目标市场"
	ColTargetCost    = "目标成本"
	ColBOMVersion    = "BOM版本"
	ColLifecycle     = "生命周期"
	ColReleaseDate   = "发布日期"
	ColSpecification = "规格"
	ColStatus        = "状态"
	ColImageURL      = "产品图片URL"
	ColSerialNumbers = "产品序列号"
)

var ProductHeaders = []string{
	ColID, ColModel, ColName, ColCategory, ColDescription, ColPlatform, ColFamily,
	ColTargetMarket, ColTargetCost, ColBOMVersion, ColLifecycle, ColReleaseDate,
	ColSpecification, ColStatus, ColImageURL, ColSerialNumbers,
}

var CostDriftHeaders = []string{"物料编码", "物料名称", "供应商", "基准成本", "当前成本", "成本漂移", "漂移率(%)"}

// ParseFormat accepts "csv" or "xlsx" in any case; empty defaults to xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromFilename picks the reader for an uploaded file by extension.
// Legacy .xls workbooks are recognised but refused.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return "", &ValidationError{Errors: []string{"legacy .xls workbooks are not supported, save the file as .xlsx"}}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// Filename returns base_YYYYMMDD_HHMMSS.ext
func Filename(base string, f Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", base, now.Format("20060102_150405"), f)
}

func ContentType(f Format) string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ValidationError carries every problem found in an import batch.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "import rejected: " + strings.Join(e.Errors, "; ")
}
