// Package zip bundles downloaded gallery images into one archive.
package zip

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ManifestName is the archive member listing every image.
const ManifestName = "manifest.json"

// Entry is one image placed in the archive.
type Entry struct {
	Filename string    `json:"filename"`
	ID       string    `json:"id"`
	Prompt   string    `json:"prompt"`
	MIME     string    `json:"mime"`
	Created  time.Time `json:"created"`
	Data     []byte    `json:"-"`
}

// Archive writes entries followed by a JSON manifest. File names must be
// distinct flat names: no directories, no dot segments.
func Archive(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !validName(e.Filename) {
			return nil, fmt.Errorf("zip: invalid file name %q", e.Filename)
		}
		if _, dup := seen[e.Filename]; dup {
			return nil, fmt.Errorf("zip: duplicate file name %q", e.Filename)
		}
		seen[e.Filename] = struct{}{}

		modified := e.Created
		if modified.IsZero() {
			modified = time.Now()
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Filename, Method: zip.Store, Modified: modified})
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", e.Filename, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", e.Filename, err)
		}
	}

	manifest, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("zip: manifest: %w", err)
	}
	w, err := zw.Create(ManifestName)
	if err != nil {
		return nil, fmt.Errorf("zip: create manifest: %w", err)
	}
	if _, err := w.Write(manifest); err != nil {
		return nil, fmt.Errorf("zip: write manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}

func validName(name string) bool {
	switch name {
	case "", ".", "..", ManifestName:
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
