package service

import (
	"context"
	"time"

	"github.com/docyard/docyard/internal/model"
	"github.com/docyard/docyard/internal/store"
)

const DefaultScanPageSize = 100

// ScanReport summarizes one staleness scan. LastPage is the index of the last
// page that completed; an interrupted scan can resume from LastPage+1 because
// per-document scoring is idempotent and side-effect free.
type ScanReport struct {
	AsOf        time.Time
	Assessments []Assessment
	Scanned     int
	LastPage    int
}

// Candidates filters the report down to documents worth archiving.
func (r *ScanReport) Candidates() []Assessment {
	var out []Assessment
	for _, a := range r.Assessments {
		if a.Recommendation == RecommendCandidate {
			out = append(out, a)
		}
	}
	return out
}

func NewScanner(store store.Store, engine *DecisionEngine, pageSize int) *Scanner {
	if pageSize <= 0 {
		pageSize = DefaultScanPageSize
	}
	return &Scanner{
		store:    store,
		engine:   engine,
		pageSize: pageSize,
	}
}

// Scanner walks the corpus in fixed-size pages and scores every non-archived
// document. It is a cooperative batch: it holds no locks, mutates nothing and
// honors context cancellation between pages.
type Scanner struct {
	store    store.Store
	engine   *DecisionEngine
	pageSize int
}

// Run scans from the first page. Equivalent to Resume(ctx, asOf, 0).
func (s *Scanner) Run(ctx context.Context, asOf time.Time) (*ScanReport, error) {
	return s.Resume(ctx, asOf, 0)
}

// Resume scans from the given page index onward.
func (s *Scanner) Resume(ctx context.Context, asOf time.Time, fromPage int) (*ScanReport, error) {
	report := &ScanReport{
		AsOf:     asOf,
		LastPage: fromPage - 1,
	}

	for page := fromPage; ; page++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		docs, err := s.store.ListDocumentsPage(ctx, page*s.pageSize, s.pageSize)
		if err != nil {
			return report, err
		}
		if len(docs) == 0 {
			break
		}

		for _, doc := range docs {
			if doc.Archived() {
				continue
			}

			assessment, err := s.scoreOne(ctx, doc, asOf)
			if err != nil {
				return report, err
			}

			report.Assessments = append(report.Assessments, assessment)
			report.Scanned++
		}

		report.LastPage = page

		if len(docs) < s.pageSize {
			break
		}
	}

	return report, nil
}

// ScoreDocument assembles the engine's inputs for a single document and
// scores it. This backs both the scanner and the one-off score operation.
func (s *Scanner) ScoreDocument(ctx context.Context, doc *model.Document, asOf time.Time) (Assessment, error) {
	return s.scoreOne(ctx, doc, asOf)
}

func (s *Scanner) scoreOne(ctx context.Context, doc *model.Document, asOf time.Time) (Assessment, error) {
	usage, err := s.store.GetUsage(ctx, doc.ID)
	if err != nil {
		// absent aggregate means the document was simply never opened
		usage = &model.UsageRecord{DocumentID: doc.ID}
	}

	edges, err := s.store.ListEdgesTo(ctx, doc.ID)
	if err != nil {
		return Assessment{}, err
	}

	incoming := make([]IncomingEdge, 0, len(edges))
	for _, edge := range edges {
		source, err := s.store.GetDocument(ctx, edge.FromID)
		if err != nil {
			// dangling source, treat it as gone
			continue
		}
		incoming = append(incoming, IncomingEdge{
			Edge:            edge,
			SourceLifecycle: source.LifecycleType,
		})
	}

	return s.engine.Score(doc, usage, incoming, asOf), nil
}
