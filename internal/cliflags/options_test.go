// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package cliflags

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsDefaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, defaultInterval, o.Interval)
	assert.Equal(t, defaultBatchSize, o.BatchSize)
	assert.Equal(t, defaultTraceWindow, o.TraceWindow)
	assert.Equal(t, defaultTopologyWindow, o.TopologyWindow)
}

func TestOptionsAddFlagsAndInitFromViper(t *testing.T) {
	o := NewOptions()
	command := &cobra.Command{}
	o.AddFlags(command.Flags())

	v := viper.New()
	require.NoError(t, v.BindPFlags(command.Flags()))

	err := command.ParseFlags([]string{
		"--es-url=https://es.example.com:9200",
		"--es-ca=/etc/es/ca.pem",
		"--es-cert=/etc/es/cert.pem",
		"--es-key=/etc/es/key.pem",
		"--rg-url=https://relation-graph.example.com",
		"--interval=15s",
		"--state=/var/lib/jaeger-topology-discovery/state.json.gz",
		"--batch-size=500",
		"--trace-window=2m",
		"--topology-window=48h",
	})
	require.NoError(t, err)

	o.InitFromViper(v)

	assert.Equal(t, "https://es.example.com:9200", o.ESURL)
	assert.Equal(t, "/etc/es/ca.pem", o.ESCA)
	assert.Equal(t, "/etc/es/cert.pem", o.ESCert)
	assert.Equal(t, "/etc/es/key.pem", o.ESKey)
	assert.Equal(t, "https://relation-graph.example.com", o.RGURL)
	assert.Equal(t, 15*time.Second, o.Interval)
	assert.Equal(t, "/var/lib/jaeger-topology-discovery/state.json.gz", o.State)
	assert.Equal(t, 500, o.BatchSize)
	assert.Equal(t, 2*time.Minute, o.TraceWindow)
	assert.Equal(t, 48*time.Hour, o.TopologyWindow)
}

func TestOptionsInitFromViperUsesFlagDefaultsWhenUnset(t *testing.T) {
	o := NewOptions()
	command := &cobra.Command{}
	o.AddFlags(command.Flags())

	v := viper.New()
	require.NoError(t, v.BindPFlags(command.Flags()))
	require.NoError(t, command.ParseFlags(nil))

	o.InitFromViper(v)

	assert.Equal(t, defaultInterval, o.Interval)
	assert.Equal(t, defaultBatchSize, o.BatchSize)
	assert.Equal(t, defaultTraceWindow, o.TraceWindow)
	assert.Equal(t, defaultTopologyWindow, o.TopologyWindow)
	assert.Empty(t, o.ESURL)
}
