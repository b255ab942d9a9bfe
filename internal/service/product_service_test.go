package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go-ppm-dashboard/internal/kv"
	"go-ppm-dashboard/internal/model"
	"go-ppm-dashboard/internal/repository"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// emptyStore returns a store whose snapshot is an empty list, so no sample data is loaded.
func emptyStore(t *testing.T) (*productStore, repository.ProductRepository) {
	t.Helper()
	repo := repository.NewProductRepo(kv.NewMemoryStore())
	if err := repo.Save(context.Background(), nil); err != nil {
		t.Fatalf("seed empty snapshot: %v", err)
	}
	return newProductStore(context.Background(), repo, nil, func() time.Time { return fixedNow }), repo
}

func ids(list []model.Product) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestAddProductDerivesLifecycle(t *testing.T) {
	s, _ := emptyStore(t)
	list, err := s.AddProduct(context.Background(), model.Product{ID: "P1", Model: "M1", Name: "N1", Lifecycle: model.LifecycleProduction})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("want 1 product got %d", len(list))
	}
	p := list[0]
	if p.Status != model.StatusDraft || p.Lifecycle != model.LifecyclePlanning {
		t.Fatalf("want draft/planning got %s/%s", p.Status, p.Lifecycle)
	}
	if !p.CreatedAt.Equal(fixedNow) || !p.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("timestamps not refreshed: %v %v", p.CreatedAt, p.UpdatedAt)
	}
}

func TestAddProductRejectsMissingAndDuplicateID(t *testing.T) {
	s, _ := emptyStore(t)
	ctx := context.Background()
	if _, err := s.AddProduct(ctx, model.Product{ID: "  "}); !errors.Is(err, ErrProductIDRequired) {
		t.Fatalf("want ErrProductIDRequired got %v", err)
	}
	s.AddProduct(ctx, model.Product{ID: "P1"})
	list, err := s.AddProduct(ctx, model.Product{ID: "P1", Name: "again"})
	if !errors.Is(err, ErrProductExists) {
		t.Fatalf("want ErrProductExists got %v", err)
	}
	if len(list) != 1 || list[0].Name != "" {
		t.Fatalf("list should be unchanged, got %+v", list)
	}
}

func TestUpdateProductLifecycleRules(t *testing.T) {
	ctx := context.Background()
	deprecated := model.StatusDeprecated
	draft := model.StatusDraft
	sustaining := model.LifecycleSustaining
	name := "Renamed"

	cases := []struct {
		name  string
		patch model.ProductPatch
		want  model.Lifecycle
	}{
		{"status change drives lifecycle", model.ProductPatch{Status: &deprecated}, model.LifecycleEndOfLife},
		{"status change beats explicit lifecycle", model.ProductPatch{Status: &deprecated, Lifecycle: &sustaining}, model.LifecycleEndOfLife},
		{"same status lets explicit lifecycle win", model.ProductPatch{Status: &draft, Lifecycle: &sustaining}, model.LifecycleSustaining},
		{"explicit lifecycle alone", model.ProductPatch{Lifecycle: &sustaining}, model.LifecycleSustaining},
		{"unrelated patch keeps lifecycle", model.ProductPatch{Name: &name}, model.LifecyclePlanning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := emptyStore(t)
			s.AddProduct(ctx, model.Product{ID: "P1", Model: "M1", Name: "N1"})
			got, err := s.UpdateProduct(ctx, "P1", tc.patch)
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if got.Lifecycle != tc.want {
				t.Fatalf("want=%s got=%s", tc.want, got.Lifecycle)
			}
		})
	}
}

func TestUpdateProductScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	s.AddProduct(ctx, model.Product{ID: "P1", Model: "M1", Name: "N1"})

	later := fixedNow.Add(time.Hour)
	s.now = func() time.Time { return later }
	deprecated := model.StatusDeprecated
	got, err := s.UpdateProduct(ctx, "P1", model.ProductPatch{Status: &deprecated})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != model.StatusDeprecated || got.Lifecycle != model.LifecycleEndOfLife {
		t.Fatalf("want deprecated/end_of_life got %s/%s", got.Status, got.Lifecycle)
	}
	if !got.UpdatedAt.Equal(later) || !got.CreatedAt.Equal(fixedNow) {
		t.Fatalf("timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	if _, err := s.UpdateProduct(ctx, "missing", model.ProductPatch{}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestDeleteProducts(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	for _, id := range []string{"A", "B", "C", "D"} {
		s.AddProduct(ctx, model.Product{ID: id})
	}
	if got := ids(s.DeleteProduct(ctx, "B")); !reflect.DeepEqual(got, []string{"A", "C", "D"}) {
		t.Fatalf("after delete B got %v", got)
	}
	if got := ids(s.DeleteProducts(ctx, []string{"A", "D", "zzz"})); !reflect.DeepEqual(got, []string{"C"}) {
		t.Fatalf("after bulk delete got %v", got)
	}
}

func TestImportIntoEmptyStoreKeepsInput(t *testing.T) {
	s, _ := emptyStore(t)
	in := []model.Product{{ID: "X", Name: "x"}, {ID: "Y", Name: "y"}, {ID: "Z", Name: "z"}}
	res := s.ImportProducts(context.Background(), in)
	if !reflect.DeepEqual(res.Products, in) {
		t.Fatalf("want %+v got %+v", in, res.Products)
	}
	if res.Accepted != 3 || len(res.Skipped) != 0 {
		t.Fatalf("unexpected counts %+v", res)
	}
}

func TestImportKeepsExistingRecordOnCollision(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	s.AddProduct(ctx, model.Product{ID: "P1", Name: "original", TargetCost: 10})

	res := s.ImportProducts(ctx, []model.Product{
		{ID: "P1", Name: "incoming", TargetCost: 99},
		{ID: "P2", Name: "new"},
	})
	if got := ids(res.Products); !reflect.DeepEqual(got, []string{"P1", "P2"}) {
		t.Fatalf("want [P1 P2] got %v", got)
	}
	p1, _ := s.Product("P1")
	if p1.Name != "original" || p1.TargetCost != 10 {
		t.Fatalf("existing record changed: %+v", p1)
	}
	if res.Accepted != 1 || !reflect.DeepEqual(res.Skipped, []string{"P1"}) {
		t.Fatalf("unexpected counts %+v", res)
	}
}

func TestMutationsArePersisted(t *testing.T) {
	ctx := context.Background()
	s, repo := emptyStore(t)
	s.AddProduct(ctx, model.Product{ID: "P1", Model: "M1", Name: "N1"})
	s.SaveProducts(ctx, []model.Product{
		{ID: "S1", Model: "M", Name: "Saved"},
		{ID: "S2", Model: "", Name: "Invalid on reload"},
	})

	reloaded := newProductStore(ctx, repo, nil, time.Now)
	if got := ids(reloaded.Products()); !reflect.DeepEqual(got, []string{"S1"}) {
		t.Fatalf("want [S1] after reload got %v", got)
	}
	if len(reloaded.LoadReport().Rejected) != 1 {
		t.Fatalf("want 1 rejected record got %+v", reloaded.LoadReport())
	}

	s.ClearProducts(ctx)
	reloaded = newProductStore(ctx, repo, nil, time.Now)
	if n := len(reloaded.Products()); n != 0 {
		t.Fatalf("want empty store after clear got %d", n)
	}
}

func TestReturnedListsAreCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	list, _ := s.AddProduct(ctx, model.Product{ID: "P1", TargetMarket: []string{"CN"}})
	list[0].Name = "mutated"
	list[0].TargetMarket[0] = "XX"

	p, _ := s.Product("P1")
	if p.Name != "" || p.TargetMarket[0] != "CN" {
		t.Fatalf("store shares memory with caller: %+v", p)
	}
}

type failingRepo struct{}

func (failingRepo) Load(context.Context) ([]model.Product, repository.LoadReport, error) {
	return nil, repository.LoadReport{}, errors.New("disk gone")
}

func (failingRepo) Save(context.Context, []model.Product) error {
	return errors.New("disk gone")
}

func TestPersistenceFailuresDegradeSilently(t *testing.T) {
	ctx := context.Background()
	s := newProductStore(ctx, failingRepo{}, nil, time.Now)
	list, err := s.AddProduct(ctx, model.Product{ID: "P1"})
	if err != nil {
		t.Fatalf("persistence failure should not surface: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("in-memory mutation should stand, got %d products", len(list))
	}
}
