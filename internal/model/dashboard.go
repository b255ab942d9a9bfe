package model

// CostPart is one row of the cost dashboard BOM table
type CostPart struct {
	PartID    string        `json:"partId"`
	PartName  string        `json:"partName"`
	Category  string        `json:"category"`
	Supplier  string        `json:"supplier"`
	Qty       int           `json:"qty"`
	UnitCost  float64       `json:"unitCost"`
	TotalCost float64       `json:"totalCost"`
	Lifecycle PartLifecycle `json:"lifecycle"`
}

type CostDriftRow struct {
	PartID       string  `json:"partId"`
	PartName     string  `json:"partName"`
	Supplier     string  `json:"supplier"`
	BaselineCost float64 `json:"baselineCost"`
	CurrentCost  float64 `json:"currentCost"`
	Drift        float64 `json:"drift"`
	DriftPct     float64 `json:"driftPct"`
}

// Recalculate refreshes Drift and DriftPct from the two costs.
func (r *CostDriftRow) Recalculate() {
	r.Drift = r.CurrentCost - r.BaselineCost
	if r.BaselineCost != 0 {
		r.DriftPct = r.Drift / r.BaselineCost * 100
	} else {
		r.DriftPct = 0
	}
}

// CostTreeNode is a node of the hierarchical cost breakdown. Leaves carry a PartID.
type CostTreeNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	PartID   string         `json:"partId,omitempty"`
	Cost     float64        `json:"cost"`
	Children []CostTreeNode `json:"children,omitempty"`
}

func (n CostTreeNode) Clone() CostTreeNode {
	c := n
	if n.Children != nil {
		c.Children = make([]CostTreeNode, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

type CostHistoryPoint struct {
	ID     string  `json:"id"`
	Month  string  `json:"month"` // YYYY-MM
	Cost   float64 `json:"cost"`
	Target float64 `json:"target"`
}

type AlternativeSuggestion struct {
	ID          string  `json:"id"`
	PartID      string  `json:"partId"`
	AltPartID   string  `json:"altPartId"`
	AltPartName string  `json:"altPartName"`
	CurrentCost float64 `json:"currentCost"`
	AltCost     float64 `json:"altCost"`
	Saving      float64 `json:"saving"`
	FFFScore    float64 `json:"fffScore"`
}

type PriceNegotiation struct {
	ID           string  `json:"id"`
	PartID       string  `json:"partId"`
	Supplier     string  `json:"supplier"`
	CurrentPrice float64 `json:"currentPrice"`
	TargetPrice  float64 `json:"targetPrice"`
	Saving       float64 `json:"saving"`
}

type LifecycleWarning struct {
	ID        string        `json:"id"`
	PartID    string        `json:"partId"`
	Lifecycle PartLifecycle `json:"lifecycle"`
	Message   string        `json:"message"`
}

// CostDownSuggestions groups the three suggestion lists of the cost-down drawer
type CostDownSuggestions struct {
	Alternatives      []AlternativeSuggestion `json:"alternatives"`
	PriceNegotiations []PriceNegotiation      `json:"priceNegotiations"`
	LifecycleWarnings []LifecycleWarning      `json:"lifecycleWarnings"`
}

func (s CostDownSuggestions) Clone() CostDownSuggestions {
	return CostDownSuggestions{
		Alternatives:      append([]AlternativeSuggestion(nil), s.Alternatives...),
		PriceNegotiations: append([]PriceNegotiation(nil), s.PriceNegotiations...),
		LifecycleWarnings: append([]LifecycleWarning(nil), s.LifecycleWarnings...),
	}
}

// DashboardSeed is the initial data a cost dashboard is opened with
type DashboardSeed struct {
	ProductID   string              `json:"productId"`
	CurrentCost float64             `json:"currentCost"`
	TargetCost  float64             `json:"targetCost"`
	Parts       []CostPart          `json:"parts"`
	Drift       []CostDriftRow      `json:"drift"`
	Tree        []CostTreeNode      `json:"tree"`
	History     []CostHistoryPoint  `json:"history"`
	Suggestions CostDownSuggestions `json:"suggestions"`
}
