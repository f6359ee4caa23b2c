// Package ingest drives the scrape-parse-persist pipeline end to end.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/fundwatch/internal/domain"
	"github.com/jonesrussell/fundwatch/internal/logger"
	"github.com/jonesrussell/fundwatch/internal/parser"
)

// ErrAlreadyRunning is returned when a run is triggered while another run is
// in progress in this process.
var ErrAlreadyRunning = errors.New("an ingestion run is already in progress")

// Storage is the persistence surface the orchestrator needs.
type Storage interface {
	TestConnection(ctx context.Context) error
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	InsertBatch(ctx context.Context, records []domain.FundingRecord) (int, error)
}

// LinkDiscoverer lists candidate article URLs.
type LinkDiscoverer interface {
	Discover(ctx context.Context) []string
}

// ArticleFetcher fetches one article and returns its parsed funding items.
type ArticleFetcher interface {
	Fetch(ctx context.Context, articleURL string) ([]parser.Item, error)
}

// RunRecorder records finished runs; may be nil when run history is disabled.
type RunRecorder interface {
	Record(ctx context.Context, run domain.IngestionRun) error
}

// Service is the ingestion orchestrator. Articles are processed one at a
// time, sequentially; the skip-check and insert are not transactional, so
// concurrent runs in separate processes could double-insert. Runs within one
// process are serialized by the running flag.
type Service struct {
	storage    Storage
	discoverer LinkDiscoverer
	fetcher    ArticleFetcher
	recorder   RunRecorder
	log        logger.Interface
	running    atomic.Bool
}

// NewService creates the orchestrator. recorder may be nil.
func NewService(
	store Storage,
	discoverer LinkDiscoverer,
	fetcher ArticleFetcher,
	recorder RunRecorder,
	log logger.Interface,
) *Service {
	return &Service{
		storage:    store,
		discoverer: discoverer,
		fetcher:    fetcher,
		recorder:   recorder,
		log:        log,
	}
}

// Run executes one full ingestion pass and returns its summary. Per-article
// fetch/parse failures are counted and skipped; a failed persistence health
// check or a failed insert aborts the run with a wrapped error.
func (s *Service) Run(ctx context.Context) (domain.RunSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return domain.RunSummary{}, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	startedAt := time.Now().UTC()
	runID := uuid.NewString()
	s.log.Info("starting ingestion run", "run_id", runID)

	summary, runErr := s.run(ctx)

	s.log.Info("ingestion run finished",
		"run_id", runID,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"errors", summary.Errors,
	)
	s.recordRun(ctx, runID, startedAt, summary, runErr)

	return summary, runErr
}

// run performs the actual pipeline pass.
func (s *Service) run(ctx context.Context) (domain.RunSummary, error) {
	var summary domain.RunSummary

	if err := s.storage.TestConnection(ctx); err != nil {
		return summary, fmt.Errorf("storage connection: %w", err)
	}

	links := s.discoverer.Discover(ctx)
	s.log.Info("articles discovered", "count", len(links))

	for _, link := range links {
		s.log.Info("processing article", "url", link)

		exists, err := s.storage.ExistsByReference(ctx, link)
		if err != nil {
			return summary, fmt.Errorf("existence check for %s: %w", link, err)
		}
		if exists {
			s.log.Info("article already ingested, skipping", "url", link)
			summary.Skipped++
			continue
		}

		items, err := s.fetcher.Fetch(ctx, link)
		if err != nil {
			s.log.Warn("article fetch failed", "url", link, "error", err)
			summary.Errors++
			continue
		}
		if len(items) == 0 {
			s.log.Warn("no funding data found", "url", link)
			summary.Errors++
			continue
		}

		inserted, err := s.storage.InsertBatch(ctx, convertItems(items))
		if err != nil {
			return summary, fmt.Errorf("insert batch for %s: %w", link, err)
		}

		s.log.Info("funding records inserted", "url", link, "count", inserted)
		summary.Processed++
	}

	return summary, nil
}

// recordRun writes the run to history when a recorder is configured.
func (s *Service) recordRun(
	ctx context.Context,
	runID string,
	startedAt time.Time,
	summary domain.RunSummary,
	runErr error,
) {
	if s.recorder == nil {
		return
	}

	finishedAt := time.Now().UTC()
	run := domain.IngestionRun{
		ID:         runID,
		StartedAt:  startedAt,
		FinishedAt: &finishedAt,
		Processed:  summary.Processed,
		Skipped:    summary.Skipped,
		Errors:     summary.Errors,
		Status:     domain.RunStatusSuccess,
	}
	if runErr != nil {
		run.Status = domain.RunStatusFailed
		run.Error = runErr.Error()
	}

	if err := s.recorder.Record(ctx, run); err != nil {
		s.log.Warn("failed to record run history", "run_id", runID, "error", err)
	}
}

// convertItems turns accepted parse items into stored funding records.
func convertItems(items []parser.Item) []domain.FundingRecord {
	now := time.Now().UTC()

	records := make([]domain.FundingRecord, 0, len(items))
	for i := range items {
		item := &items[i]

		investors := make([]domain.Investor, 0, len(item.Investors))
		for _, inv := range item.Investors {
			investors = append(investors, domain.Investor{
				Name: inv.Name,
				URL:  inv.URL,
			})
		}

		records = append(records, domain.FundingRecord{
			ID:          uuid.NewString(),
			Description: item.Description,
			CompanyName: item.CompanyName,
			CompanyURL:  item.CompanyURL,
			Amount:      item.Amount,
			Round:       item.Round,
			Investors:   investors,
			StoryLink:   item.StoryLink,
			Source:      item.Source,
			Date:        item.Date,
			CompanyType: item.CompanyType,
			Reference:   item.Reference,
			CreatedAt:   now,
		})
	}

	return records
}
