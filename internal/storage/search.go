package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/jonesrussell/fundwatch/internal/domain"
)

// sortFields maps API sort fields to index fields. Text fields sort on their
// keyword sub-field.
var sortFields = map[string]string{
	"company_name": "company_name.keyword",
	"amount":       "amount",
	"date":         "date",
}

const (
	defaultSortField = "date"
	maxRoundBuckets  = 100
	maxTypeBuckets   = 20
)

// searchResponse is the subset of a search response the query layer reads.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// termsAggregation is a decoded terms aggregation result.
type termsAggregation struct {
	Buckets []struct {
		Key      string `json:"key"`
		DocCount int64  `json:"doc_count"`
	} `json:"buckets"`
}

// sumAggregation is a decoded sum aggregation result.
type sumAggregation struct {
	Value float64 `json:"value"`
}

// Search returns one page of funding records matching the query.
func (s *Storage) Search(ctx context.Context, q domain.Query) (*domain.PaginatedResult, error) {
	if s.client == nil {
		return nil, ErrNotConnected
	}

	if q.ItemsPerPage <= 0 {
		q.ItemsPerPage = domain.DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}

	field, ok := sortFields[q.SortField]
	if !ok {
		field = sortFields[defaultSortField]
	}
	order := "desc"
	if q.SortDirection == "asc" {
		order = "asc"
	}

	body := map[string]any{
		"query": buildQuery(q),
		"sort": []any{
			map[string]any{field: map[string]any{"order": order}},
		},
		"from": q.Skip(),
		"size": q.ItemsPerPage,
	}

	res, err := s.searchRaw(ctx, body)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search funding records: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	records := make([]domain.FundingRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		record, decodeErr := decodeRecord(hit.Source)
		if decodeErr != nil {
			s.log.Warn("skipping undecodable record", "error", decodeErr)
			continue
		}
		records = append(records, record)
	}

	total := parsed.Hits.Total.Value
	perPage := int64(q.ItemsPerPage)

	return &domain.PaginatedResult{
		Data:         records,
		TotalCount:   total,
		TotalPages:   (total + perPage - 1) / perPage,
		CurrentPage:  q.Page,
		ItemsPerPage: q.ItemsPerPage,
	}, nil
}

// DistinctRounds returns the distinct non-empty round labels, sorted.
func (s *Storage) DistinctRounds(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrNotConnected
	}

	body := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			"rounds": map[string]any{
				"terms": map[string]any{"field": "round", "size": maxRoundBuckets},
			},
		},
	}

	res, err := s.searchRaw(ctx, body)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("aggregate rounds: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode rounds response: %w", err)
	}

	var agg termsAggregation
	if raw, ok := parsed.Aggregations["rounds"]; ok {
		if err := json.Unmarshal(raw, &agg); err != nil {
			return nil, fmt.Errorf("decode rounds aggregation: %w", err)
		}
	}

	rounds := make([]string, 0, len(agg.Buckets))
	for _, bucket := range agg.Buckets {
		if bucket.Key != "" {
			rounds = append(rounds, bucket.Key)
		}
	}
	sort.Strings(rounds)

	return rounds, nil
}

// Stats aggregates totals over all stored records.
func (s *Storage) Stats(ctx context.Context) (*domain.Stats, error) {
	if s.client == nil {
		return nil, ErrNotConnected
	}

	body := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			"total_funding": map[string]any{
				"sum": map[string]any{"field": "amount"},
			},
			"by_type": map[string]any{
				"terms": map[string]any{"field": "company_type", "size": maxTypeBuckets},
			},
		},
	}

	res, err := s.searchRaw(ctx, body)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("aggregate stats: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode stats response: %w", err)
	}

	stats := &domain.Stats{
		TotalCompanies: parsed.Hits.Total.Value,
		FundingByType:  []domain.TypeCount{},
	}

	if raw, ok := parsed.Aggregations["total_funding"]; ok {
		var sum sumAggregation
		if err := json.Unmarshal(raw, &sum); err != nil {
			return nil, fmt.Errorf("decode funding sum: %w", err)
		}
		stats.TotalFunding = int64(sum.Value)
	}

	if raw, ok := parsed.Aggregations["by_type"]; ok {
		var agg termsAggregation
		if err := json.Unmarshal(raw, &agg); err != nil {
			return nil, fmt.Errorf("decode type aggregation: %w", err)
		}
		for _, bucket := range agg.Buckets {
			stats.FundingByType = append(stats.FundingByType, domain.TypeCount{
				CompanyType: bucket.Key,
				Count:       bucket.DocCount,
			})
		}
	}

	return stats, nil
}

// buildQuery builds the bool query for a funding search. An empty query
// matches everything.
func buildQuery(q domain.Query) map[string]any {
	var must []any
	if q.Search != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q.Search,
				"fields": []string{"company_name", "description", "company_type"},
			},
		})
	}

	var filter []any
	if q.FilterRound != "" {
		filter = append(filter, map[string]any{
			"term": map[string]any{"round": q.FilterRound},
		})
	}

	if len(must) == 0 && len(filter) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}

	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]any{"bool": boolQuery}
}

// decodeRecord converts one search hit source into a FundingRecord.
func decodeRecord(source map[string]any) (domain.FundingRecord, error) {
	var record domain.FundingRecord

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:     &record,
	})
	if err != nil {
		return record, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(source); err != nil {
		return record, fmt.Errorf("decode hit: %w", err)
	}

	return record, nil
}
