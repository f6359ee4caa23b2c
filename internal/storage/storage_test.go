package storage_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/fundwatch/internal/domain"
	"github.com/jonesrussell/fundwatch/internal/logger"
	"github.com/jonesrussell/fundwatch/internal/storage"
)

// mockTransport implements http.RoundTripper for mocking Elasticsearch responses.
type mockTransport struct {
	RoundTripFn func(req *http.Request) (*http.Response, error)
}

func (t *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.RoundTripFn(req)
}

func esResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}},
	}
}

func newMockStorage(t *testing.T, fn func(req *http.Request) (*http.Response, error)) *storage.Storage {
	t.Helper()
	client, err := es.NewClient(es.Config{Transport: &mockTransport{RoundTripFn: fn}})
	require.NoError(t, err)
	return storage.NewStorage(client, "funding-records", logger.NewNoOp())
}

func TestExistsByReference_Found(t *testing.T) {
	s := newMockStorage(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/funding-records/_search", req.URL.Path)
		return esResponse(http.StatusOK, `{"hits":{"total":{"value":1},"hits":[]}}`), nil
	})

	exists, err := s.ExistsByReference(context.Background(), "https://example.com/p/security-funded-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExistsByReference_NotFound(t *testing.T) {
	s := newMockStorage(t, func(_ *http.Request) (*http.Response, error) {
		return esResponse(http.StatusOK, `{"hits":{"total":{"value":0},"hits":[]}}`), nil
	})

	exists, err := s.ExistsByReference(context.Background(), "https://example.com/p/security-funded-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExistsByReference_MissingIndex(t *testing.T) {
	s := newMockStorage(t, func(_ *http.Request) (*http.Response, error) {
		return esResponse(http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`), nil
	})

	exists, err := s.ExistsByReference(context.Background(), "https://example.com/p/security-funded-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInsertBatch_Success(t *testing.T) {
	var captured []byte
	s := newMockStorage(t, func(req *http.Request) (*http.Response, error) {
		captured, _ = io.ReadAll(req.Body)
		return esResponse(http.StatusOK, `{
			"errors": false,
			"items": [
				{"index": {"status": 201}},
				{"index": {"status": 201}}
			]
		}`), nil
	})

	records := []domain.FundingRecord{
		{ID: "a", CompanyName: "Acme", Reference: "https://example.com/p/1"},
		{ID: "b", CompanyName: "BarSec", Reference: "https://example.com/p/1"},
	}

	inserted, err := s.InsertBatch(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// NDJSON body carries explicit document IDs.
	assert.Contains(t, string(captured), `{"index":{"_id":"a"}}`)
	assert.Contains(t, string(captured), `{"index":{"_id":"b"}}`)
}

func TestInsertBatch_ItemFailure(t *testing.T) {
	s := newMockStorage(t, func(_ *http.Request) (*http.Response, error) {
		return esResponse(http.StatusOK, `{
			"errors": true,
			"items": [
				{"index": {"status": 400, "error": {"type": "mapper_parsing_exception", "reason": "bad field"}}}
			]
		}`), nil
	})

	_, err := s.InsertBatch(context.Background(), []domain.FundingRecord{{ID: "a", CompanyName: "Acme"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

func TestInsertBatch_EmptyBatch(t *testing.T) {
	s := newMockStorage(t, func(_ *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for an empty batch")
		return nil, nil
	})

	inserted, err := s.InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestSearch_DecodesRecords(t *testing.T) {
	var searchBody map[string]any
	s := newMockStorage(t, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &searchBody)
		return esResponse(http.StatusOK, `{
			"hits": {
				"total": {"value": 25},
				"hits": [
					{"_source": {
						"id": "rec-1",
						"company_name": "Acme",
						"amount": 12000000,
						"round": "Series B",
						"date": "2025-08-01",
						"company_type": "Product",
						"reference": "https://example.com/p/1",
						"created_at": "2025-08-02T10:00:00Z"
					}}
				]
			}
		}`), nil
	})

	result, err := s.Search(context.Background(), domain.Query{
		Page:          2,
		ItemsPerPage:  12,
		SortField:     "company_name",
		SortDirection: "asc",
		Search:        "acme",
		FilterRound:   "Series B",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25), result.TotalCount)
	assert.Equal(t, int64(3), result.TotalPages)
	assert.Equal(t, 2, result.CurrentPage)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Acme", result.Data[0].CompanyName)
	assert.Equal(t, int64(12_000_000), result.Data[0].Amount)
	assert.False(t, result.Data[0].CreatedAt.IsZero())

	// Text sort fields must use their keyword sub-field.
	sorts, ok := searchBody["sort"].([]any)
	require.True(t, ok)
	require.Len(t, sorts, 1)
	_, hasKeyword := sorts[0].(map[string]any)["company_name.keyword"]
	assert.True(t, hasKeyword)

	assert.EqualValues(t, 12, searchBody["from"])
	assert.EqualValues(t, 12, searchBody["size"])
}

func TestSearch_MatchAllWithoutFilters(t *testing.T) {
	var searchBody map[string]any
	s := newMockStorage(t, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &searchBody)
		return esResponse(http.StatusOK, `{"hits":{"total":{"value":0},"hits":[]}}`), nil
	})

	_, err := s.Search(context.Background(), domain.Query{Page: 1, ItemsPerPage: 12})
	require.NoError(t, err)

	query, ok := searchBody["query"].(map[string]any)
	require.True(t, ok)
	_, hasMatchAll := query["match_all"]
	assert.True(t, hasMatchAll)
}

func TestSearch_ZeroPageSizeDefaults(t *testing.T) {
	var searchBody map[string]any
	s := newMockStorage(t, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &searchBody)
		return esResponse(http.StatusOK, `{"hits":{"total":{"value":30},"hits":[]}}`), nil
	})

	result, err := s.Search(context.Background(), domain.Query{})
	require.NoError(t, err)

	assert.EqualValues(t, domain.DefaultPageSize, searchBody["size"])
	assert.EqualValues(t, 0, searchBody["from"])
	assert.Equal(t, int64(3), result.TotalPages)
	assert.Equal(t, 1, result.CurrentPage)
}

func TestDistinctRounds(t *testing.T) {
	s := newMockStorage(t, func(_ *http.Request) (*http.Response, error) {
		return esResponse(http.StatusOK, `{
			"hits": {"total": {"value": 3}, "hits": []},
			"aggregations": {
				"rounds": {"buckets": [
					{"key": "Series A", "doc_count": 2},
					{"key": "Seed", "doc_count": 1},
					{"key": "", "doc_count": 1}
				]}
			}
		}`), nil
	})

	rounds, err := s.DistinctRounds(context.Background())
	require.NoError(t, err)

	// Empty round labels are dropped and the rest sort lexically.
	assert.Equal(t, []string{"Seed", "Series A"}, rounds)
}

func TestStats(t *testing.T) {
	s := newMockStorage(t, func(_ *http.Request) (*http.Response, error) {
		return esResponse(http.StatusOK, `{
			"hits": {"total": {"value": 10}, "hits": []},
			"aggregations": {
				"total_funding": {"value": 50000000},
				"by_type": {"buckets": [
					{"key": "Product", "doc_count": 8},
					{"key": "Service", "doc_count": 2}
				]}
			}
		}`), nil
	})

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.TotalCompanies)
	assert.Equal(t, int64(50_000_000), stats.TotalFunding)
	require.Len(t, stats.FundingByType, 2)
	assert.Equal(t, "Product", stats.FundingByType[0].CompanyType)
	assert.Equal(t, int64(8), stats.FundingByType[0].Count)
}

func TestTestConnection_PingFailure(t *testing.T) {
	s := newMockStorage(t, func(_ *http.Request) (*http.Response, error) {
		return esResponse(http.StatusServiceUnavailable, `{}`), nil
	})

	err := s.TestConnection(context.Background())
	require.Error(t, err)
}
