package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go-ppm-dashboard/internal/fixtures"
	"go-ppm-dashboard/internal/kv"
	"go-ppm-dashboard/internal/model"
)

// Persisted layout
const (
	KeyImportedProducts = "importedProducts"
	KeyHasImportedData  = "hasImportedData"
)

// Reasons a persisted record is left out of the active set
const (
	ReasonDuplicateID   = "duplicate id"
	ReasonMissingID     = "missing id"
	ReasonMissingModel  = "missing model"
	ReasonMissingName   = "missing name"
	ReasonMissingFields = "missing platform/family/targetMarket"
	ReasonUndecodable   = "undecodable record"
)

// RejectedRecord describes a persisted record that did not make it into the store
type RejectedRecord struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// LoadReport tells the caller where the products came from and what was dropped
type LoadReport struct {
	UsedDefaults      bool             `json:"usedDefaults"`
	DiscardedSnapshot bool             `json:"discardedSnapshot"`
	Rejected          []RejectedRecord `json:"rejected"`
}

type ProductRepository interface {
	Load(ctx context.Context) ([]model.Product, LoadReport, error)
	Save(ctx context.Context, products []model.Product) error
}

type productRepo struct {
	store kv.Store
}

func NewProductRepo(store kv.Store) ProductRepository {
	return &productRepo{store: store}
}

// Load reads the snapshot. A missing snapshot yields the sample products, a
// corrupted one is removed and also yields the sample products. The error is
// non-nil only when the store itself could not be read.
func (r *productRepo) Load(ctx context.Context) ([]model.Product, LoadReport, error) {
	var report LoadReport

	flag, _, err := r.store.Get(ctx, KeyHasImportedData)
	if err != nil {
		report.UsedDefaults = true
		return fixtures.DefaultProducts(), report, fmt.Errorf("read %s: %w", KeyHasImportedData, err)
	}
	raw, found, err := r.store.Get(ctx, KeyImportedProducts)
	if err != nil {
		report.UsedDefaults = true
		return fixtures.DefaultProducts(), report, fmt.Errorf("read %s: %w", KeyImportedProducts, err)
	}
	if flag != "true" || !found {
		report.UsedDefaults = true
		return fixtures.DefaultProducts(), report, nil
	}

	var records []json.RawMessage
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '[' || json.Unmarshal(trimmed, &records) != nil {
		report.UsedDefaults = true
		report.DiscardedSnapshot = true
		if err := r.store.Delete(ctx, KeyImportedProducts); err != nil {
			return fixtures.DefaultProducts(), report, fmt.Errorf("remove corrupted snapshot: %w", err)
		}
		return fixtures.DefaultProducts(), report, nil
	}

	products, rejected := decodeRecords(records)
	report.Rejected = rejected
	return products, report, nil
}

// decodeRecords dedupes by id (first occurrence wins, even if it is later
// rejected) and then drops records missing id, model or name, or lacking the
// platform/family/targetMarket keys.
func decodeRecords(records []json.RawMessage) ([]model.Product, []RejectedRecord) {
	products := make([]model.Product, 0, len(records))
	var rejected []RejectedRecord
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		var keys map[string]json.RawMessage
		var p model.Product
		if err := json.Unmarshal(rec, &keys); err != nil {
			rejected = append(rejected, RejectedRecord{Index: i, Reason: ReasonUndecodable})
			continue
		}
		if err := json.Unmarshal(rec, &p); err != nil {
			rejected = append(rejected, RejectedRecord{Index: i, Reason: ReasonUndecodable})
			continue
		}

		id := strings.TrimSpace(p.ID)
		if id != "" && seen[id] {
			rejected = append(rejected, RejectedRecord{Index: i, ID: id, Reason: ReasonDuplicateID})
			continue
		}
		if id != "" {
			seen[id] = true
		}
		if reason := missingField(p, keys); reason != "" {
			rejected = append(rejected, RejectedRecord{Index: i, ID: id, Reason: reason})
			continue
		}
		products = append(products, p)
	}
	return products, rejected
}

func missingField(p model.Product, keys map[string]json.RawMessage) string {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return ReasonMissingID
	case strings.TrimSpace(p.Model) == "":
		return ReasonMissingModel
	case strings.TrimSpace(p.Name) == "":
		return ReasonMissingName
	}
	for _, k := range []string{"platform", "family", "targetMarket"} {
		if _, ok := keys[k]; !ok {
			return ReasonMissingFields
		}
	}
	return ""
}

func (r *productRepo) Save(ctx context.Context, products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, KeyImportedProducts, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", KeyImportedProducts, err)
	}
	if err := r.store.Set(ctx, KeyHasImportedData, "true"); err != nil {
		return fmt.Errorf("write %s: %w", KeyHasImportedData, err)
	}
	return nil
}
