// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import (
	"github.com/google/uuid"

	"github.com/ContinuousC/JaegerDiscovery/internal/relationgraph"
)

const (
	itemTypeService   = "jaeger/service"
	itemTypeOperation = "jaeger/operation"

	relationTypeServiceInvokes   = "jaeger/service_invokes"
	relationTypeOperationInvokes = "jaeger/operation_invokes"
)

// Materialize produces the items-and-relations document for the current
// state: one item per retained service and operation, one relation per
// retained service- and operation-level edge. Entities whose endpoint
// was pruned are silently skipped, since they can't be emitted with a
// dangling UUID.
func (s *State) Materialize() *relationgraph.Items {
	items := make(map[uuid.UUID]relationgraph.Item, len(s.Services))
	relations := make(map[uuid.UUID]relationgraph.Relation)

	for svcKey, svc := range s.Services {
		items[svc.ID] = relationgraph.Item{
			ItemType:   itemTypeService,
			Properties: serviceProperties(svcKey, svc.Meta),
		}
		for opName, op := range svc.Operations {
			items[op.ID] = relationgraph.Item{
				ItemType: itemTypeOperation,
				Parent:   &svc.ID,
				Properties: map[string]any{
					"jaeger/operation_name": NewStringProperty(string(opName)),
				},
			}
		}
	}

	for _, svc := range s.Services {
		for callerKey, rel := range svc.Relations {
			callerSvc, ok := s.Services[callerKey]
			if !ok {
				continue
			}
			relations[rel.ID] = relationgraph.Relation{
				RelationType: relationTypeServiceInvokes,
				Source:       callerSvc.ID,
				Target:       svc.ID,
				Properties:   map[string]any{},
			}
		}
		for _, op := range svc.Operations {
			for callerSvcKey, byOp := range op.Relations {
				callerSvc, ok := s.Services[callerSvcKey]
				if !ok {
					continue
				}
				for callerOpName, rel := range byOp {
					callerOp, ok := callerSvc.Operations[callerOpName]
					if !ok {
						continue
					}
					relations[rel.ID] = relationgraph.Relation{
						RelationType: relationTypeOperationInvokes,
						Source:       callerOp.ID,
						Target:       op.ID,
						Properties:   map[string]any{},
					}
				}
			}
		}
	}

	return &relationgraph.Items{
		Domain: relationgraph.Domain{
			Types: relationgraph.TypeSet{
				Items:     []string{itemTypeService, itemTypeOperation},
				Relations: []string{relationTypeServiceInvokes, relationTypeOperationInvokes},
			},
		},
		Items: relationgraph.World{
			Items:     items,
			Relations: relations,
		},
	}
}

// serviceProperties builds a service item's property map: the always-
// present service name, the optional namespace/instance-id, and every
// populated meta field, each wrapped as {"string": "<value>"}.
func serviceProperties(key ServiceKey, meta ServiceMeta) map[string]any {
	props := map[string]any{
		"jaeger/service_name": NewStringProperty(string(key.Name)),
	}
	if key.HasNamespace() {
		props["jaeger/service_namespace"] = NewStringProperty(key.Namespace)
	}
	if key.HasInstanceID() {
		props["jaeger/service_instance_id"] = NewStringProperty(key.InstanceID)
	}
	for name, value := range meta.fields() {
		if value != nil {
			props[name] = value
		}
	}
	return props
}
