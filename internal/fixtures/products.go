// Package fixtures holds the built-in sample data the service starts from
// when nothing has been persisted yet.
package fixtures

import (
	"time"

	"go-ppm-dashboard/internal/model"
)

var sampleEpoch = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

// DefaultProducts returns a fresh copy of the sample product catalogue.
func DefaultProducts() []model.Product {
	return []model.Product{
		{
			ID:            "PRD-001",
			Model:         "X1-PRO",
			Name:          "Smart Gateway Pro",
			Category:      "Gateway",
			Platform:      "Orion",
			Family:        "X Series",
			TargetMarket:  []string{"CN", "EU"},
			TargetCost:    128.5,
			BOMVersion:    "V1.2",
			Lifecycle:     model.LifecycleDevelopment,
			Status:        model.StatusActive,
			SerialNumbers: []string{"SN-X1-0001", "SN-X1-0002"},
			CreatedAt:     sampleEpoch,
			UpdatedAt:     sampleEpoch,
		},
		{
			ID:            "PRD-002",
			Model:         "X2-LITE",
			Name:          "Smart Gateway Lite",
			Category:      "Gateway",
			Platform:      "Orion",
			Family:        "X Series",
			TargetMarket:  []string{"CN"},
			TargetCost:    76,
			BOMVersion:    "V1.0",
			Lifecycle:     model.LifecyclePlanning,
			Status:        model.StatusDraft,
			SerialNumbers: []string{},
			CreatedAt:     sampleEpoch,
			UpdatedAt:     sampleEpoch,
		},
		{
			ID:            "PRD-003",
			Model:         "S9-CAM",
			Name:          "Outdoor Camera S9",
			Category:      "Camera",
			Platform:      "Vega",
			Family:        "S Series",
			TargetMarket:  []string{"NA", "EU", "APAC"},
			TargetCost:    212.9,
			BOMVersion:    "V3.1",
			Lifecycle:     model.LifecycleEndOfLife,
			Status:        model.StatusDeprecated,
			SerialNumbers: []string{"SN-S9-1000"},
			CreatedAt:     sampleEpoch,
			UpdatedAt:     sampleEpoch,
		},
	}
}
