// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package esquery

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/olivere/elastic/v7"
)

// DefaultTimeout is the per-request timeout applied to the Elasticsearch
// HTTP client, matching the reference implementation's reqwest client.
const DefaultTimeout = 60 * time.Second

// NewClient builds an *elastic.Client authenticated with the given
// mutual-TLS configuration. Sniffing and the background healthcheck are
// disabled: this tool only ever issues PIT-scoped requests against the
// URL it was given, so cluster topology discovery would be wasted work
// (and, against a single reverse-proxied endpoint, actively wrong).
func NewClient(url string, tlsConfig *tls.Config) (*elastic.Client, error) {
	httpClient := &http.Client{
		Timeout: DefaultTimeout,
		Transport: &http.Transport{
			TLSClientConfig: tlsConfig,
		},
	}

	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetHttpClient(httpClient),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("build elasticsearch client: %w", err)
	}
	return client, nil
}
