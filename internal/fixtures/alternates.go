package fixtures

import "go-ppm-dashboard/internal/model"

// AltNodes returns the alternate-part pool a session starts with.
func AltNodes() []model.AltNode {
	return []model.AltNode{
		{ID: "alt-001", ParentID: "MCU-STM32F4", Group: model.AltGroupA, PartID: "STM32F407VGT6", PartName: "STM32F407 MCU", Qty: 1, Cost: 8.6, Lifecycle: model.PartActive, Compliance: []string{"RoHS", "REACH"}, FFFScore: 100, IsDefault: true, Status: model.AltStatusActive},
		{ID: "alt-002", ParentID: "MCU-STM32F4", Group: model.AltGroupA, PartID: "GD32F407VGT6", PartName: "GD32F407 MCU", Qty: 1, Cost: 5.2, Lifecycle: model.PartActive, Compliance: []string{"RoHS"}, FFFScore: 92, Status: model.AltStatusActive},
		{ID: "alt-003", ParentID: "MCU-STM32F4", Group: model.AltGroupA, PartID: "APM32F407VGT6", PartName: "APM32F407 MCU", Qty: 1, Cost: 4.9, Lifecycle: model.PartPhaseOut, Compliance: []string{"RoHS"}, FFFScore: 88, Status: model.AltStatusActive},
		{ID: "alt-004", ParentID: "MCU-STM32F4", Group: model.AltGroupB, PartID: "STM32F405RGT6", PartName: "STM32F405 MCU", Qty: 1, Cost: 7.1, Lifecycle: model.PartActive, Compliance: []string{"RoHS", "REACH"}, FFFScore: 75, IsDefault: true, Status: model.AltStatusActive},
		{ID: "alt-005", ParentID: "CAP-100UF", Group: model.AltGroupA, PartID: "GRM32ER61A107", PartName: "Murata 100uF MLCC", Qty: 4, Cost: 0.32, Lifecycle: model.PartActive, Compliance: []string{"RoHS", "AEC-Q200"}, FFFScore: 100, IsDefault: true, Status: model.AltStatusActive},
		{ID: "alt-006", ParentID: "CAP-100UF", Group: model.AltGroupA, PartID: "CL32A107MQVNNNE", PartName: "Samsung 100uF MLCC", Qty: 4, Cost: 0.21, Lifecycle: model.PartActive, Compliance: []string{"RoHS"}, FFFScore: 95, Status: model.AltStatusActive},
		{ID: "alt-007", ParentID: "CAP-100UF", Group: model.AltGroupC, PartID: "EEE-FK1A101P", PartName: "Panasonic 100uF Electrolytic", Qty: 4, Cost: 0.12, Lifecycle: model.PartObsolete, Compliance: []string{"RoHS"}, FFFScore: 60, Status: model.AltStatusDeprecated},
	}
}
