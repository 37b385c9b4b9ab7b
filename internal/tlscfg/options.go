// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

// Package tlscfg loads client TLS material (a CA bundle plus an optional
// client certificate/key pair) into a *tls.Config, directly grounded in
// the teacher's own pkg/config/tlscfg.Options contract: same field
// names, same validation (a client cert requires its key and vice
// versa), same error phrasing.
package tlscfg

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// systemCertPool is a seam for tests; production always calls
// x509.SystemCertPool.
var systemCertPool = x509.SystemCertPool

// Options describes the client TLS material to load.
type Options struct {
	// CAPath is the path to a PEM bundle of CA certificates to trust
	// for the server. Empty means "trust the system root pool".
	CAPath string
	// CertPath and KeyPath are the client certificate and private key
	// used for mutual TLS. Both must be set, or both left empty.
	CertPath string
	KeyPath  string
	// ClientCAPath, if set, is loaded as an additional trusted root
	// (used when the loader doubles as a server-side verifier; unused
	// by the Elasticsearch client but kept for parity with the
	// teacher's Options type).
	ClientCAPath string
}

// Config builds a *tls.Config from the options, or an error describing
// which piece of material failed to load.
func (o Options) Config() (*tls.Config, error) {
	certPool, err := o.loadCertPool(o.CAPath)
	if err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    certPool,
	}

	switch {
	case o.CertPath != "" && o.KeyPath != "":
		cert, err := tls.LoadX509KeyPair(o.CertPath, o.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load server TLS cert and key: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	case o.CertPath != "" || o.KeyPath != "":
		return nil, fmt.Errorf("both client certificate and key must be supplied")
	}

	if o.ClientCAPath != "" {
		clientCAs, err := o.loadCertPool(o.ClientCAPath)
		if err != nil {
			return nil, err
		}
		cfg.ClientCAs = clientCAs
	}

	return cfg, nil
}

func (o Options) loadCertPool(path string) (*x509.CertPool, error) {
	if path == "" {
		pool, err := systemCertPool()
		if err != nil {
			return nil, fmt.Errorf("failed to load CA: %w", err)
		}
		return pool, nil
	}

	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load CA: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse CA: %s", path)
	}
	return pool, nil
}
