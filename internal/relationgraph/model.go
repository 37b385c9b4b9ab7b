// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

// Package relationgraph models the items-and-relations document published
// to the downstream relation-graph service, and the client that publishes
// it.
package relationgraph

import "github.com/google/uuid"

// Items is the top-level document published to the relation-graph
// service.
type Items struct {
	Domain Domain `json:"domain"`
	Items  World  `json:"items"`
}

// Domain declares which item/relation types this publish carries, and
// (always null here: every jaeger item is a root) the root set.
type Domain struct {
	Roots *[]uuid.UUID `json:"roots"`
	Types TypeSet      `json:"types"`
}

// TypeSet names the item and relation type tags that appear in World.
type TypeSet struct {
	Items     []string `json:"items"`
	Relations []string `json:"relations"`
}

// World carries the actual items and relations, keyed by id.
type World struct {
	Items     map[uuid.UUID]Item     `json:"items"`
	Relations map[uuid.UUID]Relation `json:"relations"`
}

// Item is a single node in the graph. ItemType discriminates between the
// "jaeger/service" and "jaeger/operation" shapes; Parent is set only for
// operations (their owning service).
type Item struct {
	ItemType   string         `json:"item_type"`
	Parent     *uuid.UUID     `json:"parent,omitempty"`
	Properties map[string]any `json:"properties"`
}

// Relation is a single directed edge. RelationType discriminates between
// "jaeger/service_invokes" and "jaeger/operation_invokes".
type Relation struct {
	RelationType string         `json:"relation_type"`
	Source       uuid.UUID      `json:"source"`
	Target       uuid.UUID      `json:"target"`
	Properties   map[string]any `json:"properties"`
}
