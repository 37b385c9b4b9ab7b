// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import (
	"time"

	"github.com/google/uuid"

	"github.com/ContinuousC/JaegerDiscovery/internal/esquery"
)

// State is the single persisted aggregate: the high-water mark for
// ingestion, the short-lived trace/span stitching index, and the
// discovered services/operations/relations topology.
type State struct {
	LastSpan *time.Time                   `json:"lastSpan,omitempty"`
	Traces   map[esquery.TraceID]*TraceInfo `json:"traces"`
	Services map[ServiceKey]*ServiceState `json:"services"`
}

// New returns an empty State, ready for the first ingestion run.
func New() *State {
	return &State{
		Traces:   make(map[esquery.TraceID]*TraceInfo),
		Services: make(map[ServiceKey]*ServiceState),
	}
}

// TraceInfo is the short-lived span index kept for one trace, used to
// stitch parent/child references across out-of-order arrivals.
type TraceInfo struct {
	LastSeen time.Time                  `json:"lastSeen"`
	Spans    map[esquery.SpanID]*SpanInfo `json:"spans"`
}

// SpanInfo is the per-span scratch entry inside a TraceInfo: the
// operation the span resolved to (once ingested) and the list of
// children that arrived before it and are waiting on it.
type SpanInfo struct {
	Key       *OperationKey  `json:"key,omitempty"`
	ParentOf  []OperationKey `json:"parentOf,omitempty"`
}

// ServiceState is the discovered state of one service.
type ServiceState struct {
	ID         uuid.UUID                       `json:"id"`
	Meta       ServiceMeta                     `json:"meta"`
	Relations  map[ServiceKey]*RelationState    `json:"relations"`
	Operations map[OperationName]*OperationState `json:"operations"`
}

// OperationState is the discovered state of one operation of one
// service.
type OperationState struct {
	ID        uuid.UUID                                        `json:"id"`
	Relations map[ServiceKey]map[OperationName]*RelationState `json:"relations"`
	LastSeen  time.Time                                        `json:"lastSeen"`
}

// RelationState is a single caller-&gt;callee edge (at either service or
// operation granularity).
type RelationState struct {
	ID       uuid.UUID `json:"id"`
	LastSeen time.Time `json:"lastSeen"`
}

// getOrCreateTrace returns the TraceInfo for id, creating it (with
// LastSeen = t) if absent, and bumping LastSeen otherwise.
func (s *State) getOrCreateTrace(id esquery.TraceID, t time.Time) *TraceInfo {
	info, ok := s.Traces[id]
	if !ok {
		info = &TraceInfo{LastSeen: t, Spans: make(map[esquery.SpanID]*SpanInfo)}
		s.Traces[id] = info
	} else {
		info.LastSeen = t
	}
	return info
}

// getOrCreateSpan returns the SpanInfo for id within info, creating an
// empty placeholder if absent.
func (info *TraceInfo) getOrCreateSpan(id esquery.SpanID) *SpanInfo {
	span, ok := info.Spans[id]
	if !ok {
		span = &SpanInfo{}
		info.Spans[id] = span
	}
	return span
}

// getOrCreateService returns the ServiceState for key, assigning a fresh
// id on creation.
func (s *State) getOrCreateService(key ServiceKey) *ServiceState {
	svc, ok := s.Services[key]
	if !ok {
		svc = &ServiceState{
			ID:         uuid.New(),
			Relations:  make(map[ServiceKey]*RelationState),
			Operations: make(map[OperationName]*OperationState),
		}
		s.Services[key] = svc
	}
	return svc
}

// getOrCreateOperation returns the OperationState for name within svc,
// assigning a fresh id on creation.
func (svc *ServiceState) getOrCreateOperation(name OperationName) *OperationState {
	op, ok := svc.Operations[name]
	if !ok {
		op = &OperationState{
			ID:        uuid.New(),
			Relations: make(map[ServiceKey]map[OperationName]*RelationState),
		}
		svc.Operations[name] = op
	}
	return op
}

// touchRelation bumps last_seen on an existing relation or creates one
// with a fresh id.
func touchRelation(m map[ServiceKey]*RelationState, key ServiceKey, t time.Time) {
	if rel, ok := m[key]; ok {
		rel.LastSeen = t
		return
	}
	m[key] = &RelationState{ID: uuid.New(), LastSeen: t}
}

// touchOperationRelation bumps last_seen on an existing operation-level
// relation or creates one with a fresh id, creating the intermediate
// per-caller-service map as needed.
func touchOperationRelation(m map[ServiceKey]map[OperationName]*RelationState, svcKey ServiceKey, opName OperationName, t time.Time) {
	byOp, ok := m[svcKey]
	if !ok {
		byOp = make(map[OperationName]*RelationState)
		m[svcKey] = byOp
	}
	if rel, ok := byOp[opName]; ok {
		rel.LastSeen = t
		return
	}
	byOp[opName] = &RelationState{ID: uuid.New(), LastSeen: t}
}
