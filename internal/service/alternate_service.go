package service

import (
	"errors"
	"sync"

	"go-ppm-dashboard/internal/model"
	"go-ppm-dashboard/pkg/logger"
)

var (
	ErrAltNodeNotFound   = errors.New("alternate part not found")
	ErrAltNodeDeprecated = errors.New("alternate part is deprecated")
)

// AlternatePool holds the alternate-part rows. Rows are mutated in place
// and never removed.
type AlternatePool interface {
	List(parentID string) []model.AltNode
	Get(id string) (model.AltNode, error)
	SetDefault(id string) ([]model.AltNode, error)
	Deprecate(id string) ([]model.AltNode, error)
}

type alternatePool struct {
	mu    sync.Mutex
	nodes []model.AltNode
	log   *logger.Logger
}

func NewAlternatePool(nodes []model.AltNode, log *logger.Logger) AlternatePool {
	if log == nil {
		log = logger.Nop()
	}
	p := &alternatePool{log: log.With("service", "AlternatePool")}
	for _, n := range nodes {
		p.nodes = append(p.nodes, n.Clone())
	}
	return p
}

// List returns the rows of parentID, or every row when parentID is empty.
func (p *alternatePool) List(parentID string) []model.AltNode {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []model.AltNode{}
	for _, n := range p.nodes {
		if parentID == "" || n.ParentID == parentID {
			out = append(out, n.Clone())
		}
	}
	return out
}

func (p *alternatePool) Get(id string) (model.AltNode, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(id); i >= 0 {
		return p.nodes[i].Clone(), nil
	}
	return model.AltNode{}, ErrAltNodeNotFound
}

// SetDefault makes id the only default of its (parent, group) and returns that group.
func (p *alternatePool) SetDefault(id string) ([]model.AltNode, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return nil, ErrAltNodeNotFound
	}
	target := p.nodes[i]
	if target.Status == model.AltStatusDeprecated {
		return nil, ErrAltNodeDeprecated
	}
	for j := range p.nodes {
		if p.nodes[j].SameGroup(target) {
			p.nodes[j].IsDefault = j == i
		}
	}
	p.log.Info("alternate default changed", "parent", target.ParentID, "group", target.Group, "id", id)
	return p.group(target), nil
}

// Deprecate marks id deprecated. If it was the default, the first other
// Active row of the group becomes default; with none left the group has no default.
func (p *alternatePool) Deprecate(id string) ([]model.AltNode, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return nil, ErrAltNodeNotFound
	}
	wasDefault := p.nodes[i].IsDefault
	p.nodes[i].Status = model.AltStatusDeprecated
	p.nodes[i].IsDefault = false
	target := p.nodes[i]

	if wasDefault {
		promoted := ""
		for j := range p.nodes {
			if j != i && p.nodes[j].SameGroup(target) && p.nodes[j].Status == model.AltStatusActive {
				p.nodes[j].IsDefault = true
				promoted = p.nodes[j].ID
				break
			}
		}
		p.log.Info("default alternate deprecated", "id", id, "promoted", promoted)
	}
	return p.group(target), nil
}

func (p *alternatePool) group(of model.AltNode) []model.AltNode {
	var out []model.AltNode
	for _, n := range p.nodes {
		if n.SameGroup(of) {
			out = append(out, n.Clone())
		}
	}
	return out
}

func (p *alternatePool) indexOf(id string) int {
	for i, n := range p.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
