package service

import (
	"errors"
	"testing"

	"go-ppm-dashboard/internal/fixtures"
	"go-ppm-dashboard/internal/model"
)

func defaults(nodes []model.AltNode) []string {
	var out []string
	for _, n := range nodes {
		if n.IsDefault {
			out = append(out, n.ID)
		}
	}
	return out
}

func TestSetDefaultScenario(t *testing.T) {
	pool := NewAlternatePool([]model.AltNode{
		{ID: "a1", ParentID: "M", Group: model.AltGroupA, IsDefault: true, Status: model.AltStatusActive},
		{ID: "a2", ParentID: "M", Group: model.AltGroupA, Status: model.AltStatusActive},
	}, nil)

	if _, err := pool.SetDefault("a2"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	a1, _ := pool.Get("a1")
	a2, _ := pool.Get("a2")
	if a1.IsDefault || !a2.IsDefault {
		t.Fatalf("want a1=false a2=true got a1=%v a2=%v", a1.IsDefault, a2.IsDefault)
	}
}

func TestSetDefaultKeepsOneDefaultPerGroup(t *testing.T) {
	pool := NewAlternatePool(fixtures.AltNodes(), nil)
	sequence := []string{"alt-002", "alt-003", "alt-001", "alt-003", "alt-006", "alt-005"}
	for _, id := range sequence {
		if _, err := pool.SetDefault(id); err != nil {
			t.Fatalf("set default %s: %v", id, err)
		}
		groups := map[string]int{}
		for _, n := range pool.List("") {
			if n.IsDefault {
				groups[n.ParentID+"/"+string(n.Group)]++
			}
		}
		for g, count := range groups {
			if count != 1 {
				t.Fatalf("after %s: group %s has %d defaults", id, g, count)
			}
		}
	}
	// group B of the MCU is untouched by group A changes
	b, _ := pool.Get("alt-004")
	if !b.IsDefault {
		t.Fatalf("other group lost its default")
	}
}

func TestSetDefaultErrors(t *testing.T) {
	pool := NewAlternatePool(fixtures.AltNodes(), nil)
	if _, err := pool.SetDefault("nope"); !errors.Is(err, ErrAltNodeNotFound) {
		t.Fatalf("want ErrAltNodeNotFound got %v", err)
	}
	if _, err := pool.SetDefault("alt-007"); !errors.Is(err, ErrAltNodeDeprecated) {
		t.Fatalf("want ErrAltNodeDeprecated got %v", err)
	}
}

func TestDeprecateDefaultPromotesFirstActive(t *testing.T) {
	pool := NewAlternatePool([]model.AltNode{
		{ID: "a1", ParentID: "M", Group: model.AltGroupA, IsDefault: true, Status: model.AltStatusActive},
		{ID: "a2", ParentID: "M", Group: model.AltGroupA, Status: model.AltStatusDeprecated},
		{ID: "a3", ParentID: "M", Group: model.AltGroupA, Status: model.AltStatusActive},
		{ID: "a4", ParentID: "M", Group: model.AltGroupA, Status: model.AltStatusActive},
		{ID: "b1", ParentID: "M", Group: model.AltGroupB, Status: model.AltStatusActive},
	}, nil)

	group, err := pool.Deprecate("a1")
	if err != nil {
		t.Fatalf("deprecate: %v", err)
	}
	if got := defaults(group); len(got) != 1 || got[0] != "a3" {
		t.Fatalf("want a3 promoted got %v", got)
	}
	a1, _ := pool.Get("a1")
	if a1.Status != model.AltStatusDeprecated || a1.IsDefault {
		t.Fatalf("a1 not deprecated: %+v", a1)
	}
	b1, _ := pool.Get("b1")
	if b1.IsDefault {
		t.Fatalf("row of another group was promoted")
	}
}

func TestDeprecateLastActiveLeavesNoDefault(t *testing.T) {
	pool := NewAlternatePool([]model.AltNode{
		{ID: "a1", ParentID: "M", Group: model.AltGroupA, IsDefault: true, Status: model.AltStatusActive},
		{ID: "a2", ParentID: "M", Group: model.AltGroupA, Status: model.AltStatusDeprecated},
	}, nil)
	group, err := pool.Deprecate("a1")
	if err != nil {
		t.Fatalf("deprecate: %v", err)
	}
	if got := defaults(group); len(got) != 0 {
		t.Fatalf("want no default got %v", got)
	}
}

func TestDeprecateNonDefaultKeepsDefault(t *testing.T) {
	pool := NewAlternatePool(fixtures.AltNodes(), nil)
	group, err := pool.Deprecate("alt-002")
	if err != nil {
		t.Fatalf("deprecate: %v", err)
	}
	if got := defaults(group); len(got) != 1 || got[0] != "alt-001" {
		t.Fatalf("want alt-001 to stay default got %v", got)
	}
}
