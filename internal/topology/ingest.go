// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ContinuousC/JaegerDiscovery/internal/esquery"
)

// ErrTimestampOutOfBounds is returned when a span's startTime (in
// microseconds since the epoch) cannot be represented as a timestamp.
// It is a fatal error for the current iteration (spec §7,
// "timestamp-out-of-bounds").
var ErrTimestampOutOfBounds = errors.New("timestamp out of bounds")

// maxRepresentableMicros is the largest microsecond offset from the
// epoch that converts to nanoseconds without overflowing an int64 in
// either direction; this mirrors the representable range of the
// reference implementation's chrono::DateTime<Utc>.
const maxRepresentableMicros = math.MaxInt64 / 1000

// MicrosToTime converts a Jaeger span's microsecond-since-epoch
// timestamp to a time.Time, or ErrTimestampOutOfBounds if it cannot be
// represented.
func MicrosToTime(us int64) (time.Time, error) {
	if us > maxRepresentableMicros || us < -maxRepresentableMicros {
		return time.Time{}, fmt.Errorf("%w: %d", ErrTimestampOutOfBounds, us)
	}
	return time.UnixMicro(us).UTC(), nil
}

// Ingestor applies spans, in ascending start-time order, to a State. It
// holds no state of its own beyond a reference to the State it mutates.
type Ingestor struct {
	state *State
}

// NewIngestor returns an Ingestor that mutates state.
func NewIngestor(state *State) *Ingestor {
	return &Ingestor{state: state}
}

// Ingest applies one span to the state: resolving its service/operation,
// recording it in the trace index, and stitching it to any
// already-known parent or previously-arrived children.
//
// Idempotent for duplicate (trace, span) arrivals except that meta and
// last_seen are refreshed and any pre-existing deferred children are
// reprocessed.
func (ig *Ingestor) Ingest(span esquery.Span) error {
	t, err := MicrosToTime(span.StartTime)
	if err != nil {
		return err
	}

	serviceKey := serviceKeyFromProcess(span.Process)
	meta := serviceMetaFromTags(span.Process.Tags)
	opName := OperationName(span.OperationName)

	// Record the span in the trace index and take over any children
	// that registered themselves as waiting on it before it arrived.
	traceInfo := ig.state.getOrCreateTrace(span.TraceID, t)
	spanInfo := traceInfo.getOrCreateSpan(span.SpanID)
	waitingChildren := spanInfo.ParentOf
	spanInfo.ParentOf = nil
	spanInfo.Key = &OperationKey{ServiceKey: serviceKey, OperationName: opName}

	// Upsert service and operation.
	svcState := ig.state.getOrCreateService(serviceKey)
	svcState.Meta = meta
	opState := svcState.getOrCreateOperation(opName)
	opState.LastSeen = t

	// Resolve parent (upward stitch): only the first CHILD_OF reference
	// is honored (see design notes on multi-parent spans).
	if ref, ok := span.FirstChildOf(); ok {
		parentTrace := ig.state.getOrCreateTrace(ref.TraceID, t)
		parentSpan := parentTrace.getOrCreateSpan(ref.SpanID)

		if parentSpan.Key != nil {
			parentKey := *parentSpan.Key
			if parentKey.ServiceKey != serviceKey {
				touchRelation(svcState.Relations, parentKey.ServiceKey, t)
			}
			touchOperationRelation(opState.Relations, parentKey.ServiceKey, parentKey.OperationName, t)
		} else {
			// Parent not seen yet: defer until it arrives.
			parentSpan.ParentOf = append(parentSpan.ParentOf, OperationKey{
				ServiceKey:    serviceKey,
				OperationName: opName,
			})
		}
	}

	// Resolve waiting children (downward stitch): this span was the
	// missing parent for each of these.
	for _, childKey := range waitingChildren {
		if childKey.ServiceKey != serviceKey {
			if childSvc, ok := ig.state.Services[childKey.ServiceKey]; ok {
				touchRelation(childSvc.Relations, serviceKey, t)
			}
		}
		if childSvc, ok := ig.state.Services[childKey.ServiceKey]; ok {
			if childOp, ok := childSvc.Operations[childKey.OperationName]; ok {
				touchOperationRelation(childOp.Relations, serviceKey, opName, t)
			}
		}
	}

	return nil
}

// PruneTraces drops trace index entries last seen before threshold. The
// driver applies it after every batch with threshold = last_span minus
// the configured trace window (TraceWindow, 300s, by default).
func (s *State) PruneTraces(threshold time.Time) {
	for id, info := range s.Traces {
		if info.LastSeen.Before(threshold) {
			delete(s.Traces, id)
		}
	}
}
