package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go-ppm-dashboard/internal/metrics"
	"go-ppm-dashboard/internal/model"
	"go-ppm-dashboard/internal/repository"
	"go-ppm-dashboard/pkg/logger"
)

var (
	ErrProductIDRequired = errors.New("product id is required")
	ErrProductExists     = errors.New("product id already exists")
	ErrProductNotFound   = errors.New("product not found")
)

// ImportResult summarises a merge import
type ImportResult struct {
	Products []model.Product `json:"products"`
	Accepted int             `json:"accepted"`
	Skipped  []string        `json:"skipped"`
}

// ProductStore is the authoritative product list shared by every view.
// Each mutation is mirrored to the repository; a failed write is logged
// and the in-memory change stands.
type ProductStore interface {
	Products() []model.Product
	Product(id string) (model.Product, error)
	AddProduct(ctx context.Context, p model.Product) ([]model.Product, error)
	UpdateProduct(ctx context.Context, id string, patch model.ProductPatch) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) []model.Product
	DeleteProducts(ctx context.Context, ids []string) []model.Product
	ImportProducts(ctx context.Context, incoming []model.Product) ImportResult
	SaveProducts(ctx context.Context, list []model.Product) []model.Product
	ClearProducts(ctx context.Context) []model.Product
	LoadReport() repository.LoadReport
}

type productStore struct {
	mu       sync.Mutex
	products []model.Product
	repo     repository.ProductRepository
	log      *logger.Logger
	now      func() time.Time
	report   repository.LoadReport
}

// NewProductStore loads the persisted snapshot. Read failures fall back to
// the sample products and are logged, never returned.
func NewProductStore(ctx context.Context, repo repository.ProductRepository, log *logger.Logger) ProductStore {
	return newProductStore(ctx, repo, log, time.Now)
}

func newProductStore(ctx context.Context, repo repository.ProductRepository, log *logger.Logger, now func() time.Time) *productStore {
	if log == nil {
		log = logger.Nop()
	}
	s := &productStore{repo: repo, log: log.With("service", "ProductStore"), now: now}

	products, report, err := repo.Load(ctx)
	if err != nil {
		metrics.PersistErrors.Inc()
		s.log.Error("load product snapshot failed", "error", err)
	}
	if report.DiscardedSnapshot {
		s.log.Warn("corrupted product snapshot discarded, using sample products")
	}
	for _, r := range report.Rejected {
		s.log.Warn("persisted product dropped", "index", r.Index, "id", r.ID, "reason", r.Reason)
	}
	s.products = products
	s.report = report
	return s
}

func (s *productStore) LoadReport() repository.LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

func (s *productStore) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.products)
}

func (s *productStore) Product(id string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.products[i].Clone(), nil
	}
	return model.Product{}, ErrProductNotFound
}

// AddProduct appends a copy of p with lifecycle derived from its status and
// fresh timestamps. A missing or duplicate id leaves the list unchanged.
func (s *productStore) AddProduct(ctx context.Context, p model.Product) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return cloneProducts(s.products), ErrProductIDRequired
	}
	if s.indexOf(p.ID) >= 0 {
		return cloneProducts(s.products), ErrProductExists
	}

	p = p.Clone()
	if p.Status == "" {
		p.Status = model.StatusDraft
	}
	p.Lifecycle = model.LifecycleForStatus(p.Status)
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.products = append(s.products, p)
	s.persist(ctx, "add")
	return cloneProducts(s.products), nil
}

func (s *productStore) UpdateProduct(ctx context.Context, id string, patch model.ProductPatch) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Product{}, ErrProductNotFound
	}
	updated := s.products[i].Clone()
	patch.Apply(&updated)
	updated.UpdatedAt = s.now()
	s.products[i] = updated

	s.persist(ctx, "update")
	return updated.Clone(), nil
}

func (s *productStore) DeleteProduct(ctx context.Context, id string) []model.Product {
	return s.DeleteProducts(ctx, []string{id})
}

func (s *productStore) DeleteProducts(ctx context.Context, ids []string) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.persist(ctx, "delete")
	return cloneProducts(s.products)
}

// ImportProducts merges incoming into the store. Into an empty store every
// record is taken as-is; otherwise a record whose id already exists is
// skipped (the stored record wins) and new ids are appended.
func (s *productStore) ImportProducts(ctx context.Context, incoming []model.Product) ImportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ImportResult
	if len(s.products) == 0 {
		s.products = cloneProducts(incoming)
		result.Accepted = len(incoming)
	} else {
		known := make(map[string]bool, len(s.products))
		for _, p := range s.products {
			known[p.ID] = true
		}
		for _, p := range incoming {
			if known[p.ID] {
				result.Skipped = append(result.Skipped, p.ID)
				continue
			}
			known[p.ID] = true
			s.products = append(s.products, p.Clone())
			result.Accepted++
		}
	}
	metrics.ImportedRecords.WithLabelValues("accepted").Add(float64(result.Accepted))
	metrics.ImportedRecords.WithLabelValues("skipped").Add(float64(len(result.Skipped)))

	s.persist(ctx, "import")
	result.Products = cloneProducts(s.products)
	return result
}

// SaveProducts replaces the store contents with list.
func (s *productStore) SaveProducts(ctx context.Context, list []model.Product) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = cloneProducts(list)
	s.persist(ctx, "save")
	return cloneProducts(s.products)
}

func (s *productStore) ClearProducts(ctx context.Context) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = []model.Product{}
	s.persist(ctx, "clear")
	return []model.Product{}
}

// persist must be called with mu held
func (s *productStore) persist(ctx context.Context, op string) {
	metrics.StoreMutations.WithLabelValues(op).Inc()
	if err := s.repo.Save(ctx, s.products); err != nil {
		metrics.PersistErrors.Inc()
		s.log.Error("persist products failed", "op", op, "error", err)
	}
}

func (s *productStore) indexOf(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneProducts(list []model.Product) []model.Product {
	out := make([]model.Product, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}
