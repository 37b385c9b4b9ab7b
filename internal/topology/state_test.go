// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateServiceIsIDStable(t *testing.T) {
	s := New()
	key := NewServiceKey("", "orders", "")

	first := s.getOrCreateService(key)
	second := s.getOrCreateService(key)

	assert.Equal(t, first.ID, second.ID)
	assert.Same(t, first, second)
}

func TestGetOrCreateOperationIsIDStable(t *testing.T) {
	s := New()
	svc := s.getOrCreateService(NewServiceKey("", "orders", ""))

	first := svc.getOrCreateOperation("create")
	second := svc.getOrCreateOperation("create")

	assert.Equal(t, first.ID, second.ID)
}

func TestTouchRelationCreatesOnceAndUpdatesLastSeen(t *testing.T) {
	m := make(map[ServiceKey]*RelationState)
	key := NewServiceKey("", "caller", "")

	touchRelation(m, key, time.Unix(100, 0))
	id := m[key].ID

	touchRelation(m, key, time.Unix(200, 0))

	assert.Equal(t, id, m[key].ID)
	assert.Equal(t, time.Unix(200, 0), m[key].LastSeen)
}

func TestStateRoundTripsThroughJSON(t *testing.T) {
	s := New()
	ing := NewIngestor(s)
	require.NoError(t, ing.Ingest(span("T1", "P", "svcA", "op1", 1_000_000, nil)))
	require.NoError(t, ing.Ingest(span("T1", "C", "svcB", "op2", 1_000_100, childOf("T1", "P"))))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, len(s.Services), len(decoded.Services))
	for key, svc := range s.Services {
		other, ok := decoded.Services[key]
		require.True(t, ok)
		assert.Equal(t, svc.ID, other.ID)
		assert.Equal(t, len(svc.Operations), len(other.Operations))
	}
}
