package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/docyard/docyard/internal/model"
	"github.com/docyard/docyard/internal/store"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultMaxHops bounds replacement-chain traversal. Replacement chains in
// practice are one or two hops; the bound only matters when edges form cycles.
const DefaultMaxHops = 10

func NewGraph(store store.Store, maxHops int) *Graph {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	return &Graph{
		store:   store,
		maxHops: maxHops,
	}
}

// Graph stores directed typed edges between documents. The edge set is
// insert-mostly and may contain cycles; traversal is always hop-bounded.
type Graph struct {
	store   store.Store
	maxHops int
}

// AddEdge links from to to. The source must exist; a missing or archived
// target is only a warning since replacements may be registered later.
func (g *Graph) AddEdge(ctx context.Context, from, to string, edgeType model.EdgeType) (*model.RelationshipEdge, error) {
	if !edgeType.Known() {
		return nil, fmt.Errorf("%w: unknown edge type %q", ErrValidation, edgeType)
	}
	if from == to {
		return nil, fmt.Errorf("%w: a document cannot relate to itself", ErrValidation)
	}

	_, err := g.store.GetDocument(ctx, from)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, from)
		}
		return nil, err
	}

	target, err := g.store.GetDocument(ctx, to)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		logrus.Warnf("edge %s -> %s targets an unregistered document", from, to)
	case err != nil:
		return nil, err
	case target.Archived() && edgeType.Supersession():
		logrus.Warnf("edge %s -> %s targets archived document %s", from, to, to)
	}

	edge := &model.RelationshipEdge{
		FromID: from,
		ToID:   to,
		Type:   edgeType,
	}
	if err := g.store.CreateEdge(ctx, edge); err != nil {
		return nil, err
	}

	return edge, nil
}

// EdgesFrom lists edges whose source is id.
func (g *Graph) EdgesFrom(ctx context.Context, id string) ([]*model.RelationshipEdge, error) {
	return g.store.ListEdgesFrom(ctx, id)
}

// EdgesTo lists edges whose target is id.
func (g *Graph) EdgesTo(ctx context.Context, id string) ([]*model.RelationshipEdge, error) {
	return g.store.ListEdgesTo(ctx, id)
}

// ResolveReplacement follows supersession edges from id to the document a
// reader should be redirected to. A cycle, a dead end or the hop bound stops
// the walk at the last document that actually exists; resolution never fails
// just because the chain is imperfect.
func (g *Graph) ResolveReplacement(ctx context.Context, id string) (string, error) {
	if _, err := g.store.GetDocument(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", err
	}

	visited := mapset.NewSet[string]()
	current := id

	for hop := 0; hop < g.maxHops; hop++ {
		visited.Add(current)

		next, ok, err := g.nextHop(ctx, current)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		if visited.Contains(next) {
			// cycle: stop at the last document before re-entering it
			break
		}

		if _, err := g.store.GetDocument(ctx, next); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// forward reference never registered, stay on the last valid hop
				break
			}
			return "", err
		}

		current = next
	}

	return current, nil
}

// nextHop picks the replacement target for one document: its own archived_by
// edge when present, otherwise the most recent document claiming to replace
// it. Deterministic for a given edge set.
func (g *Graph) nextHop(ctx context.Context, id string) (string, bool, error) {
	outgoing, err := g.store.ListEdgesFrom(ctx, id)
	if err != nil {
		return "", false, err
	}
	for i := len(outgoing) - 1; i >= 0; i-- {
		if outgoing[i].Type == model.EdgeArchivedBy {
			return outgoing[i].ToID, true, nil
		}
	}

	incoming, err := g.store.ListEdgesTo(ctx, id)
	if err != nil {
		return "", false, err
	}
	for i := len(incoming) - 1; i >= 0; i-- {
		if incoming[i].Type == model.EdgeReplaces {
			return incoming[i].FromID, true, nil
		}
	}

	return "", false, nil
}
