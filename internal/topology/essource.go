// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import (
	"context"

	"github.com/olivere/elastic/v7"

	"github.com/ContinuousC/JaegerDiscovery/internal/esquery"
)

// ESSource opens paginated Elasticsearch cursors over a Jaeger span
// index, satisfying SpanSource.
type ESSource struct {
	Client       *elastic.Client
	IndexPattern string
	KeepAlive    string
}

// NewESSource returns an ESSource querying indexPattern (typically
// "jaeger-span-*") on client, keeping each point-in-time alive for
// keepAlive between pages.
func NewESSource(client *elastic.Client, indexPattern, keepAlive string) ESSource {
	return ESSource{Client: client, IndexPattern: indexPattern, KeepAlive: keepAlive}
}

// Open implements SpanSource.
func (s ESSource) Open(ctx context.Context, sinceMicros int64, resumeAfter *int64, batchSize int) (SpanCursor, error) {
	query := map[string]any{
		"range": map[string]any{
			"startTime": map[string]any{
				"gte": sinceMicros,
			},
		},
	}
	return esquery.Open(ctx, s.Client, s.IndexPattern, s.KeepAlive, query, batchSize, resumeAfter)
}
