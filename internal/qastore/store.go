// Package qastore persists generated Q&A sets as flat files keyed by the
// source document's base name. The current format is JSONL (one item per
// line); an older whole-array JSON format is still readable and is
// upgraded in place when it holds enough items.
package qastore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/qaforge/internal/qa"
)

const (
	suffixJSONL = "_qa.jsonl"
	suffixJSON  = "_qa.json"
)

// Store reads and writes Q&A files under a single directory.
type Store struct {
	dir string
	log *slog.Logger
}

func New(dir string, log *slog.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the JSONL path for a document name.
func (s *Store) Path(docName string) string {
	return filepath.Join(s.dir, stem(docName)+suffixJSONL)
}

func (s *Store) legacyPath(docName string) string {
	return filepath.Join(s.dir, stem(docName)+suffixJSON)
}

func stem(docName string) string {
	base := filepath.Base(docName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Existing returns a previously persisted Q&A set for docName when it holds
// at least minAcceptable items, checking the JSONL file first and the
// legacy JSON file second. A sufficient legacy file is converted to JSONL
// before returning. An insufficient or absent file yields ok=false; the
// caller then regenerates and overwrites.
func (s *Store) Existing(docName string, minAcceptable int) ([]qa.Item, bool, error) {
	items, err := s.loadJSONL(s.Path(docName))
	if err != nil {
		return nil, false, err
	}
	if items != nil {
		if len(items) >= minAcceptable {
			s.log.Info("existing q&a file is sufficient",
				"doc", docName, "items", len(items), "min_acceptable", minAcceptable)
			return items, true, nil
		}
		s.log.Info("existing q&a file is insufficient, regenerating",
			"doc", docName, "items", len(items), "min_acceptable", minAcceptable)
		return nil, false, nil
	}

	items, err = s.loadLegacy(s.legacyPath(docName))
	if err != nil {
		return nil, false, err
	}
	if items == nil {
		return nil, false, nil
	}
	if len(items) < minAcceptable {
		s.log.Info("legacy q&a file is insufficient, regenerating",
			"doc", docName, "items", len(items), "min_acceptable", minAcceptable)
		return nil, false, nil
	}

	// Upgrade the sufficient legacy file to the per-line format.
	if err := s.Save(docName, items); err != nil {
		return nil, false, fmt.Errorf("convert legacy q&a file: %w", err)
	}
	s.log.Info("converted legacy q&a file to jsonl", "doc", docName, "items", len(items))
	return items, true, nil
}

// Load returns whatever is persisted for docName, preferring JSONL and
// falling back to the legacy format. A missing file is (nil, nil).
func (s *Store) Load(docName string) ([]qa.Item, error) {
	items, err := s.loadJSONL(s.Path(docName))
	if err != nil || items != nil {
		return items, err
	}
	return s.loadLegacy(s.legacyPath(docName))
}

// Save writes items for docName atomically in the JSONL format.
func (s *Store) Save(docName string, items []qa.Item) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	path := s.Path(docName)
	tmp, err := os.CreateTemp(s.dir, stem(docName)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("encode item: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush q&a file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close q&a file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace q&a file: %w", err)
	}
	return nil
}

// Delete removes both formats for docName. Missing files are not an error.
func (s *Store) Delete(docName string) error {
	for _, p := range []string{s.Path(docName), s.legacyPath(docName)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

// List returns the document stems that have a persisted Q&A set, in
// directory order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, suffixJSONL):
			names = append(names, strings.TrimSuffix(name, suffixJSONL))
		case strings.HasSuffix(name, suffixJSON):
			names = append(names, strings.TrimSuffix(name, suffixJSON))
		}
	}
	return names, nil
}

// loadJSONL reads a per-line file, skipping lines that do not parse.
// Returns nil (not an empty slice) when the file does not exist.
func (s *Store) loadJSONL(path string) ([]qa.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open q&a file: %w", err)
	}
	defer f.Close()

	items := []qa.Item{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var item qa.Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			s.log.Warn("skipping malformed q&a line", "file", path, "error", err)
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read q&a file: %w", err)
	}
	return items, nil
}

// loadLegacy reads the old whole-array format. Returns nil when the file
// does not exist.
func (s *Store) loadLegacy(path string) ([]qa.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open legacy q&a file: %w", err)
	}
	var items []qa.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse legacy q&a file %s: %w", path, err)
	}
	if items == nil {
		items = []qa.Item{}
	}
	return items, nil
}
