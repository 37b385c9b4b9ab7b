// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

// Package topology implements the incremental trace-topology
// reconstruction engine: the persisted state, the cross-span stitching of
// parent/child references, time-windowed retention and the deterministic
// materialization of state into an items-and-relations graph.
package topology

import (
	"strings"
)

// ServiceName is the mandatory name component of a ServiceKey.
type ServiceName string

// OperationName identifies an operation within a service.
type OperationName string

// ServiceKey identifies a service: an optional namespace, a mandatory
// name and an optional instance id. The empty string stands for "absent"
// in Namespace and InstanceID, which lets ServiceKey stay a plain
// comparable struct usable as a map key with value semantics (Jaeger
// service/instance identifiers are never legitimately empty strings).
//
// Equality and ordering compare Namespace, then Name, then InstanceID, in
// that order.
type ServiceKey struct {
	Namespace  string `json:"namespace,omitempty"`
	Name       ServiceName `json:"name"`
	InstanceID string `json:"instanceId,omitempty"`
}

// NewServiceKey builds a ServiceKey from its three components.
func NewServiceKey(namespace, name, instanceID string) ServiceKey {
	return ServiceKey{Namespace: namespace, Name: ServiceName(name), InstanceID: instanceID}
}

// HasNamespace reports whether the key carries a namespace.
func (k ServiceKey) HasNamespace() bool { return k.Namespace != "" }

// HasInstanceID reports whether the key carries an instance id.
func (k ServiceKey) HasInstanceID() bool { return k.InstanceID != "" }

// String renders the one-line human form: "{ns}/" if present, then name,
// then " {instance-id}" if present. This is ServiceKey's canonical
// persisted and map-key-serialized form.
func (k ServiceKey) String() string {
	var b strings.Builder
	if k.HasNamespace() {
		b.WriteString(k.Namespace)
		b.WriteByte('/')
	}
	b.WriteString(string(k.Name))
	if k.HasInstanceID() {
		b.WriteByte(' ')
		b.WriteString(k.InstanceID)
	}
	return b.String()
}

// ParseServiceKey parses the one-line human form produced by String.
func ParseServiceKey(s string) ServiceKey {
	namespace := ""
	rest := s
	if ns, r, ok := strings.Cut(s, "/"); ok {
		namespace = ns
		rest = r
	}
	name := rest
	instanceID := ""
	if n, id, ok := strings.Cut(rest, " "); ok {
		name = n
		instanceID = id
	}
	return ServiceKey{Namespace: namespace, Name: ServiceName(name), InstanceID: instanceID}
}

// MarshalText implements encoding.TextMarshaler so ServiceKey can be used
// as a JSON object key (its canonical persisted form is the one-line
// string from String).
func (k ServiceKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ServiceKey) UnmarshalText(text []byte) error {
	*k = ParseServiceKey(string(text))
	return nil
}

// Less gives ServiceKey a total order: namespace, then name, then
// instance-id, lexicographically.
func (k ServiceKey) Less(other ServiceKey) bool {
	if k.Namespace != other.Namespace {
		return k.Namespace < other.Namespace
	}
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	return k.InstanceID < other.InstanceID
}

// OperationKey identifies an operation: the owning service plus the
// operation name.
type OperationKey struct {
	ServiceKey    ServiceKey    `json:"serviceKey"`
	OperationName OperationName `json:"operationName"`
}
