package model

type DiffType string

const (
	DiffAdded      DiffType = "ADDED"
	DiffDeleted    DiffType = "DELETED"
	DiffModified   DiffType = "MODIFIED"
	DiffLifecycle  DiffType = "LIFE_CYCLE"
	DiffCompliance DiffType = "COMPLIANCE"
)

// BOMLine is one part of a BOM as seen by the comparison view
type BOMLine struct {
	PartID     string        `json:"partId" validate:"required"`
	PartName   string        `json:"partName"`
	Qty        int           `json:"qty" validate:"gte=0"`
	Cost       float64       `json:"cost" validate:"gte=0"`
	Lifecycle  PartLifecycle `json:"lifecycle"`
	Compliance []string      `json:"compliance"`
}

type DiffEntry struct {
	PartID  string   `json:"partId"`
	Type    DiffType `json:"type"`
	Base    *BOMLine `json:"base,omitempty"`
	Target  *BOMLine `json:"target,omitempty"`
	Changed []string `json:"changed,omitempty"`
}
