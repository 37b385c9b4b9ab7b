// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package esquery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagJSONRoundTrip(t *testing.T) {
	tag := Tag{Key: "service.version", Value: TagValue{Type: "string", Value: "1.2.3"}}

	data, err := json.Marshal(tag)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"service.version","type":"string","value":"1.2.3"}`, string(data))

	var decoded Tag
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tag, decoded)
}

func TestTagValueStringValue(t *testing.T) {
	s, ok := TagValue{Type: "string", Value: "x"}.StringValue()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = TagValue{Type: "int64", Value: "1"}.StringValue()
	assert.False(t, ok)

	_, ok = TagValue{Type: "bool", Value: "true"}.StringValue()
	assert.False(t, ok)
}

func TestSpanFirstChildOf(t *testing.T) {
	span := Span{
		References: []Reference{
			{RefType: FollowsFrom, TraceID: "t1", SpanID: "a"},
			{RefType: ChildOf, TraceID: "t1", SpanID: "b"},
			{RefType: ChildOf, TraceID: "t1", SpanID: "c"},
		},
	}
	ref, ok := span.FirstChildOf()
	require.True(t, ok)
	assert.Equal(t, SpanID("b"), ref.SpanID)
}

func TestSpanFirstChildOfNone(t *testing.T) {
	span := Span{References: []Reference{{RefType: FollowsFrom, TraceID: "t1", SpanID: "a"}}}
	_, ok := span.FirstChildOf()
	assert.False(t, ok)
}

func TestSpanUnmarshalFromESDocument(t *testing.T) {
	doc := []byte(`{
		"traceID": "abc123",
		"spanID": "def456",
		"operationName": "GET /orders",
		"references": [
			{"refType": "CHILD_OF", "traceID": "abc123", "spanID": "parent1"}
		],
		"startTime": 1700000000000000,
		"startTimeMillis": 1700000000000,
		"duration": 1500,
		"tags": [],
		"logs": [],
		"process": {
			"serviceName": "orders",
			"tags": [
				{"key": "service.version", "type": "string", "value": "2.0.0"},
				{"key": "service.namespace", "type": "string", "value": "prod"}
			]
		}
	}`)

	var span Span
	require.NoError(t, json.Unmarshal(doc, &span))
	assert.Equal(t, TraceID("abc123"), span.TraceID)
	assert.Equal(t, SpanID("def456"), span.SpanID)
	assert.Equal(t, "GET /orders", span.OperationName)
	assert.Equal(t, int64(1700000000000000), span.StartTime)
	assert.Equal(t, ServiceName("orders"), span.Process.ServiceName)
	assert.Len(t, span.Process.Tags, 2)
}
