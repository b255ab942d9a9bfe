package service

import (
	"sort"

	"go-ppm-dashboard/internal/model"
)

// CompareBOMs diffs two BOMs by part id. A part present in both yields one
// entry typed by its most significant change: lifecycle, then compliance,
// then quantity/cost. Unchanged parts are omitted. Entries are sorted by part id.
func CompareBOMs(base, target []model.BOMLine) []model.DiffEntry {
	baseByID := indexLines(base)
	targetByID := indexLines(target)

	diffs := []model.DiffEntry{}
	for id, b := range baseByID {
		t, ok := targetByID[id]
		if !ok {
			b := b
			diffs = append(diffs, model.DiffEntry{PartID: id, Type: model.DiffDeleted, Base: &b})
			continue
		}
		changed := changedFields(b, t)
		if len(changed) == 0 {
			continue
		}
		b, t := b, t
		diffs = append(diffs, model.DiffEntry{
			PartID:  id,
			Type:    diffType(changed),
			Base:    &b,
			Target:  &t,
			Changed: changed,
		})
	}
	for id, t := range targetByID {
		if _, ok := baseByID[id]; !ok {
			t := t
			diffs = append(diffs, model.DiffEntry{PartID: id, Type: model.DiffAdded, Target: &t})
		}
	}

	sort.Slice(diffs, func(i, j int) bool { return diffs[i].PartID < diffs[j].PartID })
	return diffs
}

// indexLines keys lines by part id; a repeated id keeps its first line.
func indexLines(lines []model.BOMLine) map[string]model.BOMLine {
	out := make(map[string]model.BOMLine, len(lines))
	for _, l := range lines {
		if _, ok := out[l.PartID]; !ok {
			out[l.PartID] = l
		}
	}
	return out
}

func changedFields(b, t model.BOMLine) []string {
	var changed []string
	if b.Lifecycle != t.Lifecycle {
		changed = append(changed, "lifecycle")
	}
	if !sameTags(b.Compliance, t.Compliance) {
		changed = append(changed, "compliance")
	}
	if b.Qty != t.Qty {
		changed = append(changed, "qty")
	}
	if b.Cost != t.Cost {
		changed = append(changed, "cost")
	}
	if b.PartName != t.PartName {
		changed = append(changed, "partName")
	}
	return changed
}

func diffType(changed []string) model.DiffType {
	switch changed[0] {
	case "lifecycle":
		return model.DiffLifecycle
	case "compliance":
		return model.DiffCompliance
	default:
		return model.DiffModified
	}
}

func sameTags(a, b []string) bool {
	set := make(map[string]int, len(a))
	for _, v := range a {
		set[v] |= 1
	}
	for _, v := range b {
		set[v] |= 2
	}
	for _, mask := range set {
		if mask != 3 {
			return false
		}
	}
	return true
}
