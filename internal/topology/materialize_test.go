// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeProducesServiceAndOperationItems(t *testing.T) {
	state := New()
	ing := NewIngestor(state)
	require.NoError(t, ing.Ingest(span("T1", "P", "svcA", "op1", 1_000_000, nil)))
	require.NoError(t, ing.Ingest(span("T1", "C", "svcB", "op2", 1_000_100, childOf("T1", "P"))))

	items := state.Materialize()

	assert.Len(t, items.Items.Items, 4)
	assert.Len(t, items.Items.Relations, 2)
	assert.ElementsMatch(t, []string{itemTypeService, itemTypeOperation}, items.Domain.Types.Items)
	assert.ElementsMatch(t, []string{relationTypeServiceInvokes, relationTypeOperationInvokes}, items.Domain.Types.Relations)
	assert.Nil(t, items.Domain.Roots)

	svcA := state.Services[NewServiceKey("", "svcA", "")]
	opItem := items.Items.Items[svcA.Operations["op1"].ID]
	require.Equal(t, itemTypeOperation, opItem.ItemType)
	require.NotNil(t, opItem.Parent)
	assert.Equal(t, svcA.ID, *opItem.Parent)
}

func TestMaterializeSkipsRelationsWithPrunedEndpoint(t *testing.T) {
	state := New()
	ing := NewIngestor(state)
	require.NoError(t, ing.Ingest(span("T1", "P", "svcA", "op1", 1_000_000, nil)))
	require.NoError(t, ing.Ingest(span("T1", "C", "svcB", "op2", 1_000_100, childOf("T1", "P"))))

	delete(state.Services, NewServiceKey("", "svcA", ""))

	items := state.Materialize()

	assert.Len(t, items.Items.Items, 2)
	assert.Empty(t, items.Items.Relations)
}

func TestServicePropertiesIncludesNamespaceAndInstanceOnlyWhenPresent(t *testing.T) {
	bare := serviceProperties(NewServiceKey("", "orders", ""), ServiceMeta{})
	assert.NotContains(t, bare, "jaeger/service_namespace")
	assert.NotContains(t, bare, "jaeger/service_instance_id")

	full := serviceProperties(NewServiceKey("prod", "orders", "pod-1"), ServiceMeta{})
	assert.Contains(t, full, "jaeger/service_namespace")
	assert.Contains(t, full, "jaeger/service_instance_id")
}

func TestServicePropertiesIncludesPopulatedMetaOnly(t *testing.T) {
	meta := ServiceMeta{ServiceVersion: NewStringProperty("1.2.3")}
	props := serviceProperties(NewServiceKey("", "orders", ""), meta)

	require.Contains(t, props, "jaeger/service_version")
	sp, ok := props["jaeger/service_version"].(*StringProperty)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", sp.String)
	assert.NotContains(t, props, "jaeger/deployment_environment")
}
