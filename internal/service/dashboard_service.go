package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go-ppm-dashboard/internal/events"
	"go-ppm-dashboard/internal/fixtures"
	"go-ppm-dashboard/internal/metrics"
	"go-ppm-dashboard/internal/model"
	"go-ppm-dashboard/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound    = errors.New("dashboard session not found")
	ErrSessionClosed      = errors.New("dashboard session closed")
	ErrPartNotFound       = errors.New("part not found in dashboard")
	ErrSuggestionNotFound = errors.New("suggestion not found")
)

// SelectionKind is the part-selection state of a dashboard. The detail
// drawer is open exactly when a part is selected.
type SelectionKind string

const (
	SelectionIdle         SelectionKind = "idle"
	SelectionPartSelected SelectionKind = "part_selected"
)

// DashboardState is a point-in-time copy of a session's state
type DashboardState struct {
	SessionID             string                    `json:"sessionId"`
	ProductID             string                    `json:"productId"`
	Selection             SelectionKind             `json:"selection"`
	SelectedPart          *model.CostPart           `json:"selectedPart"`
	DetailDrawerVisible   bool                      `json:"detailDrawerVisible"`
	CostDownDrawerVisible bool                      `json:"costDownDrawerVisible"`
	SelectedRows          []string                  `json:"selectedRows"`
	CurrentCost           float64                   `json:"currentCost"`
	TargetCost            float64                   `json:"targetCost"`
	Parts                 []model.CostPart          `json:"parts"`
	CostDrift             []model.CostDriftRow      `json:"costDriftData"`
	CostTree              []model.CostTreeNode      `json:"costTreeData"`
	CostHistory           []model.CostHistoryPoint  `json:"costHistoryData"`
	Suggestions           model.CostDownSuggestions `json:"costDownSuggestions"`
	Applied               []string                  `json:"appliedSuggestions"`
}

// Publisher receives every event emitted on a session bus, keyed by session id
type Publisher interface {
	Publish(topic, event string, payload any)
	CloseTopic(topic string)
}

// DashboardSession is one dashboard view: its state plus its own event bus.
type DashboardSession struct {
	id           string
	productID    string
	bus          *events.Bus
	log          *logger.Logger
	now          func() time.Time
	refreshDelay time.Duration

	mu             sync.Mutex
	closed         bool
	selected       *model.CostPart
	costDownOpen   bool
	selectedRows   []string
	currentCost    float64
	targetCost     float64
	parts          []model.CostPart
	drift          []model.CostDriftRow
	tree           []model.CostTreeNode
	history        []model.CostHistoryPoint
	suggestions    model.CostDownSuggestions
	applied        []string
	pendingRefresh map[*time.Timer]struct{}
}

func newDashboardSession(id string, seed model.DashboardSeed, log *logger.Logger, now func() time.Time, refreshDelay time.Duration) *DashboardSession {
	s := &DashboardSession{
		id:             id,
		productID:      seed.ProductID,
		bus:            events.NewBus(log),
		log:            log.With("session", id),
		now:            now,
		refreshDelay:   refreshDelay,
		currentCost:    seed.CurrentCost,
		targetCost:     seed.TargetCost,
		parts:          append([]model.CostPart(nil), seed.Parts...),
		drift:          append([]model.CostDriftRow(nil), seed.Drift...),
		history:        append([]model.CostHistoryPoint(nil), seed.History...),
		suggestions:    seed.Suggestions.Clone(),
		pendingRefresh: make(map[*time.Timer]struct{}),
	}
	for _, n := range seed.Tree {
		s.tree = append(s.tree, n.Clone())
	}
	return s
}

func (s *DashboardSession) ID() string { return s.id }

// Now reads the session clock
func (s *DashboardSession) Now() time.Time { return s.now() }

// Bus exposes the session's event bus so view components can subscribe.
func (s *DashboardSession) Bus() *events.Bus { return s.bus }

func (s *DashboardSession) Snapshot() DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := DashboardState{
		SessionID:             s.id,
		ProductID:             s.productID,
		Selection:             SelectionIdle,
		CostDownDrawerVisible: s.costDownOpen,
		SelectedRows:          append([]string{}, s.selectedRows...),
		CurrentCost:           s.currentCost,
		TargetCost:            s.targetCost,
		Parts:                 append([]model.CostPart{}, s.parts...),
		CostDrift:             append([]model.CostDriftRow{}, s.drift...),
		CostHistory:           append([]model.CostHistoryPoint{}, s.history...),
		Suggestions:           s.suggestions.Clone(),
		Applied:               append([]string{}, s.applied...),
	}
	if s.selected != nil {
		part := *s.selected
		st.Selection = SelectionPartSelected
		st.SelectedPart = &part
		st.DetailDrawerVisible = true
	}
	st.CostTree = make([]model.CostTreeNode, len(s.tree))
	for i, n := range s.tree {
		st.CostTree[i] = n.Clone()
	}
	return st
}

// SelectPart moves the dashboard to PartSelected and emits partSelected.
func (s *DashboardSession) SelectPart(partID string) (model.CostPart, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.CostPart{}, ErrSessionClosed
	}
	i := s.partIndex(partID)
	if i < 0 {
		s.mu.Unlock()
		return model.CostPart{}, ErrPartNotFound
	}
	part := s.parts[i]
	s.selected = &part
	s.mu.Unlock()

	s.bus.Emit(events.PartSelected, events.PartSelectedPayload{PartID: part.PartID, PartName: part.PartName})
	return part, nil
}

// ClearSelection returns the dashboard to Idle.
func (s *DashboardSession) ClearSelection() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

func (s *DashboardSession) OpenCostDownDrawer() {
	s.mu.Lock()
	s.costDownOpen = true
	s.mu.Unlock()
}

func (s *DashboardSession) CloseCostDownDrawer() {
	s.mu.Lock()
	s.costDownOpen = false
	s.mu.Unlock()
}

func (s *DashboardSession) SetSelectedRows(rows []string) {
	s.mu.Lock()
	s.selectedRows = append([]string(nil), rows...)
	s.mu.Unlock()
}

// UpdateCost overwrites the cost figures and emits costUpdated.
func (s *DashboardSession) UpdateCost(current, target float64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	payload := events.CostUpdatedPayload{CurrentCost: current, TargetCost: target, PreviousCost: s.currentCost}
	s.currentCost = current
	s.targetCost = target
	s.upsertHistory()
	s.mu.Unlock()

	s.bus.Emit(events.CostUpdated, payload)
	return nil
}

// ApplySuggestion accepts a cost-down suggestion (an alternative part or a
// price negotiation). The saving is taken off the current cost, the affected
// drift row, tree leaf, part row and selected part are rewritten, and the
// current month's history point is upserted. Emits costUpdated then
// costDownApplied; refreshData follows after the refresh delay.
func (s *DashboardSession) ApplySuggestion(suggestionID string) (DashboardState, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return DashboardState{}, ErrSessionClosed
	}

	sub, ok := s.findSubstitution(suggestionID)
	if !ok {
		s.mu.Unlock()
		return DashboardState{}, ErrSuggestionNotFound
	}

	previous := s.currentCost
	s.currentCost = roundCents(s.currentCost - sub.saving)
	s.rewriteParts(sub)
	s.rewriteDrift(sub)
	for i := range s.tree {
		rewriteTree(&s.tree[i], sub)
	}
	if s.selected != nil && s.selected.PartID == sub.partID {
		if i := s.partIndex(sub.newPartID); i >= 0 {
			part := s.parts[i]
			s.selected = &part
		}
	}
	s.upsertHistory()
	s.dropSuggestionsFor(sub.partID)
	s.applied = append(s.applied, suggestionID)

	updated := events.CostUpdatedPayload{
		CurrentCost:  s.currentCost,
		TargetCost:   s.targetCost,
		PreviousCost: previous,
		SuggestionID: suggestionID,
	}
	applied := events.CostDownAppliedPayload{
		SuggestionID: suggestionID,
		PartID:       sub.partID,
		AltPartID:    sub.newPartID,
		AltPartName:  sub.newPartName,
		Saving:       sub.saving,
		NewCost:      s.currentCost,
	}
	s.mu.Unlock()

	s.log.Info("cost-down suggestion applied", "suggestion", suggestionID, "part", sub.partID, "saving", sub.saving)
	s.bus.Emit(events.CostUpdated, updated)
	s.bus.Emit(events.CostDownApplied, applied)

	// refreshData must trail both emits, so the timer is armed only now
	s.mu.Lock()
	if !s.closed {
		s.scheduleRefresh("costDownApplied")
	}
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// RequestExport emits exportRequested for rows, or for the selected rows when rows is empty.
func (s *DashboardSession) RequestExport(format string, rows []string) {
	s.mu.Lock()
	if len(rows) == 0 {
		rows = append([]string(nil), s.selectedRows...)
	}
	s.mu.Unlock()
	s.bus.Emit(events.ExportRequested, events.ExportRequestedPayload{Format: format, Rows: rows})
}

func (s *DashboardSession) AddToComparison(partIDs []string) {
	s.bus.Emit(events.AddToComparison, events.AddToComparisonPayload{PartIDs: append([]string(nil), partIDs...)})
}

func (s *DashboardSession) Refresh() {
	s.bus.Emit(events.RefreshData, events.RefreshDataPayload{Reason: "manual"})
}

// close stops pending refreshes and drops every bus registration
func (s *DashboardSession) close() {
	s.mu.Lock()
	s.closed = true
	for t := range s.pendingRefresh {
		t.Stop()
	}
	s.pendingRefresh = make(map[*time.Timer]struct{})
	s.mu.Unlock()
	s.bus.Clear()
}

// scheduleRefresh must be called with mu held
func (s *DashboardSession) scheduleRefresh(reason string) {
	var t *time.Timer
	t = time.AfterFunc(s.refreshDelay, func() {
		s.mu.Lock()
		_, pending := s.pendingRefresh[t]
		delete(s.pendingRefresh, t)
		s.mu.Unlock()
		if pending {
			s.bus.Emit(events.RefreshData, events.RefreshDataPayload{Reason: reason})
		}
	})
	s.pendingRefresh[t] = struct{}{}
}

// upsertHistory must be called with mu held
func (s *DashboardSession) upsertHistory() {
	month := s.now().Format("2006-01")
	for i := range s.history {
		if s.history[i].Month == month {
			s.history[i].Cost = s.currentCost
			s.history[i].Target = s.targetCost
			return
		}
	}
	s.history = append(s.history, model.CostHistoryPoint{
		ID:     uuid.NewString(),
		Month:  month,
		Cost:   s.currentCost,
		Target: s.targetCost,
	})
}

type substitution struct {
	partID      string
	newPartID   string
	newPartName string // empty keeps the current name
	newCost     float64
	saving      float64
}

func (s *DashboardSession) findSubstitution(id string) (substitution, bool) {
	for _, a := range s.suggestions.Alternatives {
		if a.ID == id {
			return substitution{partID: a.PartID, newPartID: a.AltPartID, newPartName: a.AltPartName, newCost: a.AltCost, saving: a.Saving}, true
		}
	}
	for _, n := range s.suggestions.PriceNegotiations {
		if n.ID == id {
			cost := n.CurrentPrice - n.Saving
			if i := s.partIndex(n.PartID); i >= 0 {
				cost = s.parts[i].TotalCost - n.Saving
			}
			return substitution{partID: n.PartID, newPartID: n.PartID, newCost: cost, saving: n.Saving}, true
		}
	}
	return substitution{}, false
}

func (s *DashboardSession) rewriteParts(sub substitution) {
	for i := range s.parts {
		p := &s.parts[i]
		if p.PartID != sub.partID {
			continue
		}
		p.PartID = sub.newPartID
		if sub.newPartName != "" {
			p.PartName = sub.newPartName
		}
		p.TotalCost = roundCents(sub.newCost)
		if p.Qty > 0 {
			p.UnitCost = roundCents(sub.newCost / float64(p.Qty))
		}
	}
}

func (s *DashboardSession) rewriteDrift(sub substitution) {
	for i := range s.drift {
		r := &s.drift[i]
		if r.PartID != sub.partID {
			continue
		}
		r.PartID = sub.newPartID
		if sub.newPartName != "" {
			r.PartName = sub.newPartName
		}
		r.CurrentCost = roundCents(sub.newCost)
		r.Recalculate()
	}
}

// rewriteTree updates the leaf of sub.partID and returns the cost delta so
// every ancestor total moves by the same amount.
func rewriteTree(n *model.CostTreeNode, sub substitution) float64 {
	if n.PartID == sub.partID && len(n.Children) == 0 {
		delta := roundCents(sub.newCost) - n.Cost
		n.PartID = sub.newPartID
		if sub.newPartName != "" {
			n.Name = sub.newPartName
		}
		n.Cost = roundCents(sub.newCost)
		return delta
	}
	var delta float64
	for i := range n.Children {
		delta += rewriteTree(&n.Children[i], sub)
	}
	n.Cost = roundCents(n.Cost + delta)
	return delta
}

// dropSuggestionsFor removes every suggestion that targets partID
func (s *DashboardSession) dropSuggestionsFor(partID string) {
	alts := s.suggestions.Alternatives[:0]
	for _, a := range s.suggestions.Alternatives {
		if a.PartID != partID {
			alts = append(alts, a)
		}
	}
	s.suggestions.Alternatives = alts

	negs := s.suggestions.PriceNegotiations[:0]
	for _, n := range s.suggestions.PriceNegotiations {
		if n.PartID != partID {
			negs = append(negs, n)
		}
	}
	s.suggestions.PriceNegotiations = negs
}

func (s *DashboardSession) partIndex(partID string) int {
	for i, p := range s.parts {
		if p.PartID == partID {
			return i
		}
	}
	return -1
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// DashboardService owns the open dashboard sessions
type DashboardService interface {
	Open(ctx context.Context, productID string) (*DashboardSession, error)
	Get(id string) (*DashboardSession, error)
	Close(id string) error
	CloseAll()
	Count() int
}

// DashboardOptions tunes session timing; zero values mean no delay.
type DashboardOptions struct {
	RefreshDelay     time.Duration
	SimulatedLatency time.Duration
	Now              func() time.Time
}

type dashboardService struct {
	products  ProductStore
	publisher Publisher
	log       *logger.Logger
	opts      DashboardOptions

	mu       sync.Mutex
	sessions map[string]*DashboardSession
}

// NewDashboardService wires sessions to the product store (for product
// lookups) and to publisher, which may be nil.
func NewDashboardService(products ProductStore, publisher Publisher, log *logger.Logger, opts DashboardOptions) DashboardService {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &dashboardService{
		products:  products,
		publisher: publisher,
		log:       log.With("service", "DashboardService"),
		opts:      opts,
		sessions:  make(map[string]*DashboardSession),
	}
}

// Open loads the dashboard data for productID (empty for the portfolio view)
// after the configured simulated latency. A product's own target cost
// replaces the seed target.
func (d *dashboardService) Open(ctx context.Context, productID string) (*DashboardSession, error) {
	var product *model.Product
	if productID != "" && d.products != nil {
		p, err := d.products.Product(productID)
		if err != nil {
			return nil, err
		}
		product = &p
	}
	if d.opts.SimulatedLatency > 0 {
		timer := time.NewTimer(d.opts.SimulatedLatency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	seed := fixtures.DashboardSeed(productID, d.opts.Now())
	if product != nil && product.TargetCost > 0 {
		seed.TargetCost = product.TargetCost
		for i := range seed.History {
			seed.History[i].Target = product.TargetCost
		}
	}

	id := uuid.NewString()
	session := newDashboardSession(id, seed, d.log, d.opts.Now, d.opts.RefreshDelay)
	if d.publisher != nil {
		for _, name := range events.Names {
			name := name
			session.bus.On(name, func(payload any) {
				d.publisher.Publish(id, string(name), payload)
			})
		}
	}

	d.mu.Lock()
	d.sessions[id] = session
	d.mu.Unlock()
	metrics.SessionsActive.Inc()
	d.log.Info("dashboard session opened", "session", id, "product", productID)
	return session, nil
}

func (d *dashboardService) Get(id string) (*DashboardSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (d *dashboardService) Close(id string) error {
	d.mu.Lock()
	s, ok := d.sessions[id]
	delete(d.sessions, id)
	d.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	d.closeSession(s)
	return nil
}

func (d *dashboardService) CloseAll() {
	d.mu.Lock()
	all := d.sessions
	d.sessions = make(map[string]*DashboardSession)
	d.mu.Unlock()
	for _, s := range all {
		d.closeSession(s)
	}
}

func (d *dashboardService) closeSession(s *DashboardSession) {
	s.close()
	if d.publisher != nil {
		d.publisher.CloseTopic(s.id)
	}
	metrics.SessionsActive.Dec()
	d.log.Info("dashboard session closed", "session", s.id)
}

func (d *dashboardService) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}
