// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

package topology

import "github.com/ContinuousC/JaegerDiscovery/internal/snapshot"

// FileStore persists State as a gzip-JSON snapshot at Path. It
// implements Store.
type FileStore struct {
	Path string
}

// Load decodes the snapshot at Path into v, reporting found=false (and a
// nil error) if no snapshot exists yet.
func (f FileStore) Load(v any) (bool, error) {
	if !snapshot.Exists(f.Path) {
		return false, nil
	}
	if err := snapshot.Load(f.Path, v); err != nil {
		return false, err
	}
	return true, nil
}

// Save encodes v to the snapshot at Path.
func (f FileStore) Save(v any) error {
	return snapshot.Save(f.Path, v)
}
