// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceKeyStringForm(t *testing.T) {
	tests := []struct {
		name string
		key  ServiceKey
		want string
	}{
		{"bare name", NewServiceKey("", "orders", ""), "orders"},
		{"namespace and name", NewServiceKey("prod", "orders", ""), "prod/orders"},
		{"name and instance", NewServiceKey("", "orders", "pod-1"), "orders pod-1"},
		{"all three", NewServiceKey("prod", "orders", "pod-1"), "prod/orders pod-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestParseServiceKeyRoundTrip(t *testing.T) {
	tests := []ServiceKey{
		NewServiceKey("", "orders", ""),
		NewServiceKey("prod", "orders", ""),
		NewServiceKey("", "orders", "pod-1"),
		NewServiceKey("prod", "orders", "pod-1"),
	}
	for _, key := range tests {
		parsed := ParseServiceKey(key.String())
		assert.Equal(t, key, parsed)
	}
}

func TestServiceKeyAsMapKeyRoundTripsThroughJSON(t *testing.T) {
	m := map[ServiceKey]int{
		NewServiceKey("prod", "orders", ""):  1,
		NewServiceKey("", "billing", "pod-2"): 2,
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[ServiceKey]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m, decoded)
}

func TestServiceKeyLess(t *testing.T) {
	a := NewServiceKey("prod", "a", "")
	b := NewServiceKey("prod", "b", "")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}
