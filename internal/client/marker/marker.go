// Package marker persists the signed-in email across process restarts.
//
// The marker is a single small JSON file next to the client's working data.
// It records only the email of the last signed-in account; everything else
// about the session is re-derived from the store on restore.
package marker

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type markerRecord struct {
	Email string `json:"email"`
}

// Marker reads and writes the durable session marker file.
type Marker struct {
	path string
}

func New(path string) *Marker {
	return &Marker{path: path}
}

// Read returns the remembered email, or "" when no marker exists.
func (m *Marker) Read() (string, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}

		return "", errors.Wrap(err, "read session marker")
	}

	var record markerRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		// A corrupt marker is treated the same as no marker.
		return "", nil
	}

	return record.Email, nil
}

// Write records the email durably: temp file, fsync, atomic rename.
func (m *Marker) Write(email string) error {
	raw, err := json.Marshal(markerRecord{Email: email})
	if err != nil {
		return errors.Wrap(err, "encode session marker")
	}

	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, ".marker-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp marker")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return errors.Wrap(err, "write temp marker")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return errors.Wrap(err, "sync temp marker")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(err, "close temp marker")
	}

	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(err, "replace session marker")
	}

	return nil
}

// Clear removes the marker. Clearing an absent marker is not an error.
func (m *Marker) Clear() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove session marker")
	}

	return nil
}
