package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/jonesrussell/fundwatch/internal/domain"
	"github.com/jonesrussell/fundwatch/internal/logger"
)

// ErrNotConnected is returned when operations run against a nil client.
var ErrNotConnected = errors.New("elasticsearch client is not initialized")

// Interface is the persistence surface consumed by the rest of the service.
type Interface interface {
	TestConnection(ctx context.Context) error
	EnsureIndex(ctx context.Context) error
	InsertBatch(ctx context.Context, records []domain.FundingRecord) (int, error)
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	Search(ctx context.Context, q domain.Query) (*domain.PaginatedResult, error)
	DistinctRounds(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*domain.Stats, error)
	Close() error
}

// Storage persists funding records in a single Elasticsearch index.
type Storage struct {
	client *es.Client
	index  string
	log    logger.Interface
}

// NewStorage creates a Storage over the given client and index.
func NewStorage(client *es.Client, index string, log logger.Interface) *Storage {
	return &Storage{
		client: client,
		index:  index,
		log:    log,
	}
}

// TestConnection verifies the cluster is reachable. The client reconnects
// lazily per request, so a passing ping is the run-level health check.
func (s *Storage) TestConnection(ctx context.Context) error {
	if s.client == nil {
		return ErrNotConnected
	}

	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.String())
	}

	return nil
}

// EnsureIndex creates the funding index with its mapping if it is missing.
func (s *Storage) EnsureIndex(ctx context.Context) error {
	if s.client == nil {
		return ErrNotConnected
	}

	res, err := s.client.Indices.Exists(
		[]string{s.index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	createRes, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(fundingIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("create index: %s", createRes.String())
	}

	s.log.Info("created index", "index", s.index)
	return nil
}

// bulkResponse is the subset of the bulk API response needed to count
// successes and surface the first failure.
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// InsertBatch writes all records in one bulk request and returns the number
// of documents indexed. Any item-level failure fails the whole batch.
func (s *Storage) InsertBatch(ctx context.Context, records []domain.FundingRecord) (int, error) {
	if s.client == nil {
		return 0, ErrNotConnected
	}
	if len(records) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	for i := range records {
		meta := fmt.Sprintf("{\"index\":{\"_id\":%q}}\n", records[i].ID)
		buf.WriteString(meta)

		doc, err := json.Marshal(records[i])
		if err != nil {
			return 0, fmt.Errorf("marshal record %q: %w", records[i].CompanyName, err)
		}
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	res, err := s.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithIndex(s.index),
		s.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk insert: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk insert: %s", res.String())
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}

	inserted := 0
	for _, item := range parsed.Items {
		for _, result := range item {
			if result.Error != nil {
				return inserted, fmt.Errorf("bulk item failed: %s: %s",
					result.Error.Type, result.Error.Reason)
			}
			inserted++
		}
	}

	return inserted, nil
}

// ExistsByReference reports whether any record with the given article URL
// reference is stored. A missing index counts as not stored.
func (s *Storage) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	if s.client == nil {
		return false, ErrNotConnected
	}

	body := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"reference": reference},
		},
		"size": 0,
	}

	res, err := s.searchRaw(ctx, body)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, fmt.Errorf("existence check: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("decode existence response: %w", err)
	}

	return parsed.Hits.Total.Value > 0, nil
}

// Close releases idle connections held by the client's transport.
func (s *Storage) Close() error {
	if s.client == nil {
		return nil
	}
	if t, ok := s.client.Transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// searchRaw runs one search request against the funding index.
func (s *Storage) searchRaw(ctx context.Context, body map[string]any) (*esapi.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(payload)),
		s.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return res, nil
}
