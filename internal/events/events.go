package events

// Name identifies a dashboard event
type Name string

const (
	CostUpdated     Name = "costUpdated"
	CostDownApplied Name = "costDownApplied"
	ExportRequested Name = "exportRequested"
	PartSelected    Name = "partSelected"
	RefreshData     Name = "refreshData"
	AddToComparison Name = "addToComparison"
)

// Names lists every event the dashboard emits
var Names = []Name{CostUpdated, CostDownApplied, ExportRequested, PartSelected, RefreshData, AddToComparison}

// CostUpdatedPayload is the single payload shape of costUpdated, whichever
// action caused it. SuggestionID is set only when a suggestion was applied.
type CostUpdatedPayload struct {
	CurrentCost  float64 `json:"currentCost"`
	TargetCost   float64 `json:"targetCost"`
	PreviousCost float64 `json:"previousCost"`
	SuggestionID string  `json:"suggestionId,omitempty"`
}

type CostDownAppliedPayload struct {
	SuggestionID string  `json:"suggestionId"`
	PartID       string  `json:"partId"`
	AltPartID    string  `json:"altPartId"`
	AltPartName  string  `json:"altPartName"`
	Saving       float64 `json:"saving"`
	NewCost      float64 `json:"newCost"`
}

type ExportRequestedPayload struct {
	Format string   `json:"format"`
	Rows   []string `json:"rows"`
}

type PartSelectedPayload struct {
	PartID   string `json:"partId"`
	PartName string `json:"partName"`
}

type RefreshDataPayload struct {
	Reason string `json:"reason"`
}

type AddToComparisonPayload struct {
	PartIDs []string `json:"partIds"`
}
