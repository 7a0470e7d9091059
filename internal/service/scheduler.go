package service

import (
	"context"
	"sort"
	"time"

	"github.com/docyard/docyard/internal/model"
	"github.com/docyard/docyard/internal/store"
)

func NewScheduler(store store.Store) *Scheduler {
	return &Scheduler{
		store: store,
	}
}

// Scheduler computes the due-for-review projection. It never writes, so any
// number of callers can poll it concurrently without coordination.
type Scheduler struct {
	store store.Store
}

// DueForReview returns every non-archived document whose next review date is
// at or before asOf, ordered by priority, then by how overdue it is.
func (s *Scheduler) DueForReview(ctx context.Context, asOf time.Time) ([]*model.Document, error) {
	docs, err := s.store.ListDueDocuments(ctx, asOf)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Priority.Rank() != docs[j].Priority.Rank() {
			return docs[i].Priority.Rank() > docs[j].Priority.Rank()
		}
		return docs[i].NextReviewDate.Before(docs[j].NextReviewDate)
	})

	return docs, nil
}

// DaysOverdue reports how many whole days past its next review date the
// document is at asOf. Documents not yet due report zero.
func DaysOverdue(doc *model.Document, asOf time.Time) int {
	if !doc.NextReviewDate.Before(asOf) {
		return 0
	}
	return int(asOf.Sub(doc.NextReviewDate).Hours() / 24)
}
