// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import "time"

// TraceWindow is how long a trace's stitching entry survives after its
// last-seen span, applied after every ingested batch (spec §4.2).
const TraceWindow = 300 * time.Second

// TopologyWindow is how long a service/operation/relation survives after
// its last-seen evidence, applied once at the end of a run (spec §4.2).
const TopologyWindow = 7 * 24 * time.Hour

// Retain drops services, operations and relations whose last_seen falls
// below threshold, bottom-up: service relations, then operation
// relations (and the caller-service entries that become empty), then
// operations, then services left with no operations.
//
// threshold is evaluated by the caller against wall-clock "now" at the
// start of the run, not last_span (see design notes: an open question,
// kept as specified).
func (s *State) Retain(threshold time.Time) {
	for svcKey, svc := range s.Services {
		for callerKey, rel := range svc.Relations {
			if rel.LastSeen.Before(threshold) {
				delete(svc.Relations, callerKey)
			}
		}

		for opName, op := range svc.Operations {
			for callerSvcKey, byOp := range op.Relations {
				for callerOpName, rel := range byOp {
					if rel.LastSeen.Before(threshold) {
						delete(byOp, callerOpName)
					}
				}
				if len(byOp) == 0 {
					delete(op.Relations, callerSvcKey)
				}
			}
			if op.LastSeen.Before(threshold) {
				delete(svc.Operations, opName)
			}
		}

		if len(svc.Operations) == 0 {
			delete(s.Services, svcKey)
		}
	}
}
