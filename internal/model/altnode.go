package model

type AltGroup string

const (
	AltGroupA AltGroup = "A"
	AltGroupB AltGroup = "B"
	AltGroupC AltGroup = "C"
)

// PartLifecycle is the supply lifecycle of a single part
type PartLifecycle string

const (
	PartActive   PartLifecycle = "Active"
	PartPhaseOut PartLifecycle = "PhaseOut"
	PartObsolete PartLifecycle = "Obs"
)

type AltStatus string

const (
	AltStatusActive     AltStatus = "Active"
	AltStatusDeprecated AltStatus = "Deprecated"
)

// AltNode is a candidate substitute for a main part. Within one
// (ParentID, Group) at most one row is the default.
type AltNode struct {
	ID         string        `json:"id"`
	ParentID   string        `json:"parentId"`
	Group      AltGroup      `json:"group"`
	PartID     string        `json:"partId"`
	PartName   string        `json:"partName"`
	Qty        int           `json:"qty"`
	Cost       float64       `json:"cost"`
	Lifecycle  PartLifecycle `json:"lifecycle"`
	Compliance []string      `json:"compliance"`
	FFFScore   float64       `json:"fffScore"`
	IsDefault  bool          `json:"isDefault"`
	Status     AltStatus     `json:"status"`
}

func (n AltNode) Clone() AltNode {
	c := n
	if n.Compliance != nil {
		c.Compliance = append([]string(nil), n.Compliance...)
	}
	return c
}

// SameGroup reports whether both rows compete for the same default slot.
func (n AltNode) SameGroup(o AltNode) bool {
	return n.ParentID == o.ParentID && n.Group == o.Group
}
