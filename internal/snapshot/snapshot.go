// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

// Package snapshot persists State as a gzip-compressed JSON file:
// exactly the reference implementation's on-disk format, so a snapshot
// produced by either implementation can be read by the other.
package snapshot

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and decodes a gzip-JSON snapshot from path into v.
func Load(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to deserialize: %s: %w", path, err)
	}
	defer gz.Close()

	if err := json.NewDecoder(gz).Decode(v); err != nil {
		return fmt.Errorf("failed to deserialize: %s: %w", path, err)
	}
	return nil
}

// Save gzip-JSON-encodes v to path, truncating any existing file.
//
// The write is not transactionally atomic: a crash mid-write can leave a
// truncated file on disk. Such a file fails to load with a deserialize
// error, which is fatal at startup until the operator deletes or repairs
// it; once it is gone, the next run starts from empty state, re-scans the
// topology window and re-derives the topology.
func Save(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write file: %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewWriterLevel(f, gzip.BestSpeed)
	if err != nil {
		return fmt.Errorf("failed to write file: %s: %w", path, err)
	}
	if err := json.NewEncoder(gz).Encode(v); err != nil {
		gz.Close()
		return fmt.Errorf("failed to write file: %s: %w", path, err)
	}
	return gz.Close()
}

// Exists reports whether path names an existing, readable file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
