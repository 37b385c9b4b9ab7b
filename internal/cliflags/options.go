// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package cliflags

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	esURLFlag       = "es-url"
	esCAFlag        = "es-ca"
	esCertFlag      = "es-cert"
	esKeyFlag       = "es-key"
	rgURLFlag       = "rg-url"
	intervalFlag    = "interval"
	stateFlag       = "state"
	batchSizeFlag   = "batch-size"
	traceWindowFlag = "trace-window"
	topoWindowFlag  = "topology-window"

	defaultInterval       = 60 * time.Second
	defaultBatchSize      = 1000
	defaultTraceWindow    = 300 * time.Second
	defaultTopologyWindow = 7 * 24 * time.Hour
)

// Options is the tool's flat command-line surface: where to read spans
// from, where to publish the discovered topology, and how often and in
// what batches to run.
type Options struct {
	ESURL   string
	ESCA    string
	ESCert  string
	ESKey   string
	RGURL   string
	Interval time.Duration
	State   string

	BatchSize      int
	TraceWindow    time.Duration
	TopologyWindow time.Duration
}

// NewOptions returns an Options populated with defaults, matching the
// shape before AddFlags/InitFromViper have bound any flag values.
func NewOptions() *Options {
	return &Options{
		Interval:       defaultInterval,
		BatchSize:      defaultBatchSize,
		TraceWindow:    defaultTraceWindow,
		TopologyWindow: defaultTopologyWindow,
	}
}

// AddFlags registers the tool's flags on flags.
func (o *Options) AddFlags(flags *pflag.FlagSet) {
	flags.String(esURLFlag, "", "Elasticsearch base URL")
	flags.String(esCAFlag, "", "path to the CA certificate used to verify the Elasticsearch server")
	flags.String(esCertFlag, "", "path to the client certificate for mutual TLS to Elasticsearch")
	flags.String(esKeyFlag, "", "path to the client key for mutual TLS to Elasticsearch")
	flags.String(rgURLFlag, "", "relation-graph publisher base URL")
	flags.Duration(intervalFlag, defaultInterval, "discovery iteration interval")
	flags.String(stateFlag, "", "path to the persisted state snapshot")
	flags.Int(batchSizeFlag, defaultBatchSize, "number of spans fetched per search page")
	flags.Duration(traceWindowFlag, defaultTraceWindow, "how long a trace's stitching entry survives after its last span")
	flags.Duration(topoWindowFlag, defaultTopologyWindow, "how long a service/operation/relation survives after its last evidence")
}

// InitFromViper populates o from v, which must have been bound to the
// same flag set passed to AddFlags.
func (o *Options) InitFromViper(v *viper.Viper) *Options {
	o.ESURL = v.GetString(esURLFlag)
	o.ESCA = v.GetString(esCAFlag)
	o.ESCert = v.GetString(esCertFlag)
	o.ESKey = v.GetString(esKeyFlag)
	o.RGURL = v.GetString(rgURLFlag)
	o.Interval = v.GetDuration(intervalFlag)
	o.State = v.GetString(stateFlag)
	o.BatchSize = v.GetInt(batchSizeFlag)
	o.TraceWindow = v.GetDuration(traceWindowFlag)
	o.TopologyWindow = v.GetDuration(topoWindowFlag)
	return o
}
