// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package esquery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/olivere/elastic/v7"
)

// Hit is a single search result: the span it carries plus the sort
// tuple used as the resume token for the next page.
type Hit struct {
	Index  string  `json:"_index"`
	Source Span    `json:"_source"`
	Sort   []int64 `json:"sort"`
}

type hits struct {
	Hits []Hit `json:"hits"`
}

type searchResponse struct {
	Hits  hits    `json:"hits"`
	PitID *string `json:"pit_id"`
}

type pitOpenResponse struct {
	PitID string `json:"pit_id"`
}

type pitDeleteResponse struct {
	Pits []struct {
		Successful bool `json:"successful"`
	} `json:"pits"`
}

// Cursor is a restartable, point-in-time-backed Elasticsearch search
// cursor. It mirrors the original EsPit/EsQuery pair from the reference
// implementation, specialized to the single query shape this tool needs
// (a time-range filter over jaeger-span-*, sorted ascending by
// startTime, resumed via search_after): the Rust source's EsPit/EsQuery
// were generic over query/sort/resume/result types because the same
// client module served several call sites; here there is exactly one, so
// a single concrete type is the idiomatic Go shape.
//
// The PIT handle's identity may change between pages (the backend may
// rotate it); Close must be called on every code path, and calling it
// again after the first time is a no-op.
type Cursor struct {
	client    *elastic.Client
	url       string
	keepAlive string
	batchSize int
	query     map[string]any

	pitID      string
	searchAfter []int64
	closed     bool
}

// Open starts a new cursor over indexPattern, filtered by query, resuming
// from resumeAfter (the startTime in microseconds of the last span
// processed in a previous run, exclusive) if non-nil.
func Open(ctx context.Context, client *elastic.Client, indexPattern, keepAlive string, query map[string]any, batchSize int, resumeAfter *int64) (*Cursor, error) {
	path := fmt.Sprintf("/%s/_search/point_in_time", indexPattern)
	res, err := client.PerformRequest(ctx, elastic.PerformRequestOptions{
		Method: "POST",
		Path:   path,
		Params: url.Values{"keep_alive": []string{keepAlive}},
	})
	if err != nil {
		return nil, fmt.Errorf("open point-in-time: %w", err)
	}
	var open pitOpenResponse
	if err := json.Unmarshal(res.Body, &open); err != nil {
		return nil, fmt.Errorf("decode point-in-time response: %w", err)
	}

	c := &Cursor{
		client:    client,
		keepAlive: keepAlive,
		batchSize: batchSize,
		query:     query,
		pitID:     open.PitID,
	}
	if resumeAfter != nil {
		c.searchAfter = []int64{*resumeAfter}
	}
	return c, nil
}

// Next fetches the next page of hits. It returns ok=false once the
// result set is exhausted (an empty page), at which point the cursor
// should still be closed by the caller.
func (c *Cursor) Next(ctx context.Context) (page []Hit, ok bool, err error) {
	if c.pitID == "" {
		return nil, false, nil
	}

	body := map[string]any{
		"query": c.query,
		"sort":  []map[string]any{{"startTime": map[string]any{"order": "asc"}}},
		"size":  c.batchSize,
		"pit":   map[string]any{"id": c.pitID, "keep_alive": c.keepAlive},
	}
	if c.searchAfter != nil {
		body["search_after"] = c.searchAfter
	}

	res, err := c.client.PerformRequest(ctx, elastic.PerformRequestOptions{
		Method: "POST",
		Path:   "/_search",
		Body:   body,
	})
	if err != nil {
		return nil, false, fmt.Errorf("search: %w", err)
	}

	var decoded searchResponse
	if err := json.Unmarshal(res.Body, &decoded); err != nil {
		return nil, false, fmt.Errorf("decode search response: %w", err)
	}
	if decoded.PitID != nil {
		c.pitID = *decoded.PitID
	}
	if len(decoded.Hits.Hits) == 0 {
		return nil, false, nil
	}
	c.searchAfter = decoded.Hits.Hits[len(decoded.Hits.Hits)-1].Sort
	return decoded.Hits.Hits, true, nil
}

// Close releases the point-in-time handle. Safe to call multiple times.
func (c *Cursor) Close(ctx context.Context) error {
	if c.closed || c.pitID == "" {
		c.closed = true
		return nil
	}
	c.closed = true
	pitID := c.pitID
	c.pitID = ""

	res, err := c.client.PerformRequest(ctx, elastic.PerformRequestOptions{
		Method: "DELETE",
		Path:   "/_search/point_in_time",
		Body:   map[string]any{"pit_id": []string{pitID}},
	})
	if err != nil {
		return fmt.Errorf("delete point-in-time: %w", err)
	}
	var decoded pitDeleteResponse
	if err := json.Unmarshal(res.Body, &decoded); err != nil {
		return fmt.Errorf("decode point-in-time delete response: %w", err)
	}
	for _, p := range decoded.Pits {
		if !p.Successful {
			return fmt.Errorf("point-in-time deletion rejected")
		}
	}
	return nil
}
