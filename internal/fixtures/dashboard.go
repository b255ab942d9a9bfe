package fixtures

import (
	"math"
	"time"

	"go-ppm-dashboard/internal/model"
)

// DashboardSeed builds the cost dashboard data for productID; history covers
// the six months up to and excluding now's month.
func DashboardSeed(productID string, now time.Time) model.DashboardSeed {
	parts := []model.CostPart{
		{PartID: "MCU-STM32F4", PartName: "STM32F407 MCU", Category: "IC", Supplier: "ST", Qty: 1, UnitCost: 8.6, TotalCost: 8.6, Lifecycle: model.PartActive},
		{PartID: "CAP-100UF", PartName: "Murata 100uF MLCC", Category: "Passive", Supplier: "Murata", Qty: 4, UnitCost: 0.32, TotalCost: 1.28, Lifecycle: model.PartActive},
		{PartID: "PMIC-TPS65", PartName: "TPS65217 PMIC", Category: "IC", Supplier: "TI", Qty: 1, UnitCost: 3.4, TotalCost: 3.4, Lifecycle: model.PartPhaseOut},
		{PartID: "ENC-ALU", PartName: "Aluminium Enclosure", Category: "Mechanical", Supplier: "Foxlink", Qty: 1, UnitCost: 12, TotalCost: 12, Lifecycle: model.PartActive},
	}

	var current float64
	for _, p := range parts {
		current += p.TotalCost
	}
	current = math.Round(current*100) / 100

	drift := []model.CostDriftRow{
		{PartID: "MCU-STM32F4", PartName: "STM32F407 MCU", Supplier: "ST", BaselineCost: 7.8, CurrentCost: 8.6},
		{PartID: "CAP-100UF", PartName: "Murata 100uF MLCC", Supplier: "Murata", BaselineCost: 1.2, CurrentCost: 1.28},
		{PartID: "PMIC-TPS65", PartName: "TPS65217 PMIC", Supplier: "TI", BaselineCost: 3.4, CurrentCost: 3.4},
		{PartID: "ENC-ALU", PartName: "Aluminium Enclosure", Supplier: "Foxlink", BaselineCost: 12.5, CurrentCost: 12},
	}
	for i := range drift {
		drift[i].Recalculate()
	}

	tree := []model.CostTreeNode{
		{
			ID:   "asm-main",
			Name: "Main Board",
			Cost: 8.6 + 1.28 + 3.4,
			Children: []model.CostTreeNode{
				{ID: "n-mcu", Name: "STM32F407 MCU", PartID: "MCU-STM32F4", Cost: 8.6},
				{ID: "n-cap", Name: "Murata 100uF MLCC", PartID: "CAP-100UF", Cost: 1.28},
				{ID: "n-pmic", Name: "TPS65217 PMIC", PartID: "PMIC-TPS65", Cost: 3.4},
			},
		},
		{
			ID:   "asm-mech",
			Name: "Mechanical",
			Cost: 12,
			Children: []model.CostTreeNode{
				{ID: "n-enc", Name: "Aluminium Enclosure", PartID: "ENC-ALU", Cost: 12},
			},
		},
	}

	target := 22.0
	history := make([]model.CostHistoryPoint, 0, 6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 6; i >= 1; i-- {
		m := monthStart.AddDate(0, -i, 0)
		history = append(history, model.CostHistoryPoint{
			ID:     "hist-" + m.Format("200601"),
			Month:  m.Format("2006-01"),
			Cost:   current + float64(i)*0.4,
			Target: target,
		})
	}

	return model.DashboardSeed{
		ProductID:   productID,
		CurrentCost: current,
		TargetCost:  target,
		Parts:       parts,
		Drift:       drift,
		Tree:        tree,
		History:     history,
		Suggestions: model.CostDownSuggestions{
			Alternatives: []model.AlternativeSuggestion{
				{ID: "sug-alt-1", PartID: "MCU-STM32F4", AltPartID: "GD32F407VGT6", AltPartName: "GD32F407 MCU", CurrentCost: 8.6, AltCost: 5.2, Saving: 3.4, FFFScore: 92},
				{ID: "sug-alt-2", PartID: "CAP-100UF", AltPartID: "CL32A107MQVNNNE", AltPartName: "Samsung 100uF MLCC", CurrentCost: 1.28, AltCost: 0.84, Saving: 0.44, FFFScore: 95},
			},
			PriceNegotiations: []model.PriceNegotiation{
				{ID: "sug-neg-1", PartID: "ENC-ALU", Supplier: "Foxlink", CurrentPrice: 12, TargetPrice: 10.8, Saving: 1.2},
			},
			LifecycleWarnings: []model.LifecycleWarning{
				{ID: "sug-lc-1", PartID: "PMIC-TPS65", Lifecycle: model.PartPhaseOut, Message: "TPS65217 enters phase-out; qualify a replacement"},
			},
		},
	}
}
