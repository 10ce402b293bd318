package scores

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrCorrupt wraps decode failures of the score file.
var ErrCorrupt = errors.New("corrupt score file")

// LoadStatus tells a successful load apart from the ways it can degrade to
// an empty list.
type LoadStatus int

const (
	LoadOK         LoadStatus = iota // File read and decoded
	LoadMissing                      // No file yet; empty list
	LoadCorrupt                      // File exists but does not decode; empty list
	LoadUnreadable                   // File exists but cannot be read; empty list
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	case LoadUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// LoadResult is the outcome of reading a score file. Records is never nil.
// Err is set for LoadCorrupt and LoadUnreadable.
type LoadResult struct {
	Records []Record
	Status  LoadStatus
	Err     error
}

// OK reports whether the file was read and decoded.
func (r LoadResult) OK() bool {
	return r.Status == LoadOK
}

// ReadFile decodes the score file at path without modifying it. It never
// fails outright: problems are reported through the result's Status.
func ReadFile(path string) LoadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{Records: []Record{}, Status: LoadMissing}
		}
		return LoadResult{Records: []Record{}, Status: LoadUnreadable, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return LoadResult{Records: []Record{}, Status: LoadOK}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return LoadResult{Records: []Record{}, Status: LoadCorrupt, Err: fmt.Errorf("%w %s: %v", ErrCorrupt, path, err)}
	}
	if records == nil {
		records = []Record{}
	}
	return LoadResult{Records: records, Status: LoadOK}
}

// writeFile encodes records as an indented JSON array and replaces path
// atomically via a temp file in the same directory.
func writeFile(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create score dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scores-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
