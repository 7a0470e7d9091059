package cache

import (
	"context"

	"github.com/docyard/docyard/internal/model"
)

// DocumentCache is a read-through cache for registry metadata rows. A miss is
// reported as (nil, nil); errors mean the cache itself misbehaved.
type DocumentCache interface {
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	SetDocument(ctx context.Context, doc *model.Document) error
	Invalidate(ctx context.Context, id string) error
}
