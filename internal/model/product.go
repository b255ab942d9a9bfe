package model

import "time"

type Lifecycle string

const (
	LifecyclePlanning    Lifecycle = "planning"
	LifecycleDevelopment Lifecycle = "development"
	LifecycleProduction  Lifecycle = "production"
	LifecycleSustaining  Lifecycle = "sustaining"
	LifecycleEndOfLife   Lifecycle = "end_of_life"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusDeprecated Status = "deprecated"
)

// Lifecycles lists every product lifecycle stage in order
var Lifecycles = []Lifecycle{
	LifecyclePlanning,
	LifecycleDevelopment,
	LifecycleProduction,
	LifecycleSustaining,
	LifecycleEndOfLife,
}

// Statuses lists every product status
var Statuses = []Status{StatusDraft, StatusActive, StatusDeprecated}

var statusLifecycle = map[Status]Lifecycle{
	StatusDraft:      LifecyclePlanning,
	StatusActive:     LifecycleDevelopment,
	StatusDeprecated: LifecycleEndOfLife,
}

// LifecycleForStatus maps a status to the lifecycle it implies.
// An empty status is treated as draft.
func LifecycleForStatus(s Status) Lifecycle {
	if s == "" {
		s = StatusDraft
	}
	if lc, ok := statusLifecycle[s]; ok {
		return lc
	}
	return LifecyclePlanning
}

func (l Lifecycle) Valid() bool {
	for _, v := range Lifecycles {
		if v == l {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	_, ok := statusLifecycle[s]
	return ok
}

// Product is a sellable/manageable unit. The JSON form is also the
// persisted snapshot format, so field names must stay stable.
type Product struct {
	ID             string    `json:"id" validate:"required"`
	Model          string    `json:"model"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Description    string    `json:"description,omitempty"`
	Platform       string    `json:"platform"`
	Family         string    `json:"family"`
	TargetMarket   []string  `json:"targetMarket"`
	TargetCost     float64   `json:"targetCost" validate:"gte=0"`
	BOMVersion     string    `json:"bomVersion,omitempty"`
	Lifecycle      Lifecycle `json:"lifecycle" validate:"omitempty,lifecycle"`
	ReleaseDate    string    `json:"releaseDate,omitempty"`
	Specifications string    `json:"specifications,omitempty"`
	Status         Status    `json:"status" validate:"omitempty,product_status"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	SerialNumbers  []string  `json:"serialNumbers"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (p Product) Clone() Product {
	c := p
	if p.TargetMarket != nil {
		c.TargetMarket = append([]string(nil), p.TargetMarket...)
	}
	if p.SerialNumbers != nil {
		c.SerialNumbers = append([]string(nil), p.SerialNumbers...)
	}
	return c
}

// ProductPatch carries the fields of an update; nil means "leave as is".
type ProductPatch struct {
	Model          *string    `json:"model"`
	Name           *string    `json:"name"`
	Category       *string    `json:"category"`
	Description    *string    `json:"description"`
	Platform       *string    `json:"platform"`
	Family         *string    `json:"family"`
	TargetMarket   []string   `json:"targetMarket"`
	TargetCost     *float64   `json:"targetCost" validate:"omitempty,gte=0"`
	BOMVersion     *string    `json:"bomVersion"`
	Lifecycle      *Lifecycle `json:"lifecycle" validate:"omitempty,lifecycle"`
	ReleaseDate    *string    `json:"releaseDate"`
	Specifications *string    `json:"specifications"`
	Status         *Status    `json:"status" validate:"omitempty,product_status"`
	ImageURL       *string    `json:"imageUrl"`
	SerialNumbers  []string   `json:"serialNumbers"`
}

// Apply merges the patch into p. Lifecycle follows the status mapping when
// the status changes; otherwise an explicit lifecycle wins, else it is kept.
func (patch ProductPatch) Apply(p *Product) {
	setString(&p.Model, patch.Model)
	setString(&p.Name, patch.Name)
	setString(&p.Category, patch.Category)
	setString(&p.Description, patch.Description)
	setString(&p.Platform, patch.Platform)
	setString(&p.Family, patch.Family)
	setString(&p.BOMVersion, patch.BOMVersion)
	setString(&p.ReleaseDate, patch.ReleaseDate)
	setString(&p.Specifications, patch.Specifications)
	setString(&p.ImageURL, patch.ImageURL)
	if patch.TargetMarket != nil {
		p.TargetMarket = append([]string(nil), patch.TargetMarket...)
	}
	if patch.SerialNumbers != nil {
		p.SerialNumbers = append([]string(nil), patch.SerialNumbers...)
	}
	if patch.TargetCost != nil {
		p.TargetCost = *patch.TargetCost
	}

	switch {
	case patch.Status != nil && *patch.Status != p.Status:
		p.Status = *patch.Status
		p.Lifecycle = LifecycleForStatus(p.Status)
	case patch.Lifecycle != nil:
		p.Lifecycle = *patch.Lifecycle
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
