package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dagimg-dot/floww/internal/log"
)

// Store errors.
var (
	// ErrNotFound indicates no file exists for the workflow name in any
	// supported format.
	ErrNotFound = errors.New("workflow not found")

	// ErrUnsupportedFormat indicates a file extension outside the
	// supported set.
	ErrUnsupportedFormat = errors.New("unsupported workflow file format")
)

// Extensions lists the supported workflow file extensions, in the order
// they are probed when resolving a name.
func Extensions() []string {
	return []string{".yaml", ".yml", ".json", ".toml"}
}

// Store reads and writes workflow files under a single directory.
// Format is resolved per file extension; the same names work for the
// main config file, which shares the format set.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is not created;
// init owns that.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the workflows directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the available workflow names (file stems, deduplicated
// across extensions), sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing workflows in %s: %w", s.dir, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !supportedExt(ext) {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !seen[stem] {
			seen[stem] = true
			names = append(names, stem)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Find resolves a workflow name to its file path, probing each supported
// extension. Returns ErrNotFound when no file exists.
func (s *Store) Find(name string) (string, error) {
	for _, ext := range Extensions() {
		path := filepath.Join(s.dir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %q (tried %s)", ErrNotFound, name, strings.Join(Extensions(), ", "))
}

// FindAll returns every existing file for a name, one per extension.
// Used by remove, which deletes all of them.
func (s *Store) FindAll(name string) []string {
	var paths []string
	for _, ext := range Extensions() {
		path := filepath.Join(s.dir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			paths = append(paths, path)
		}
	}
	return paths
}

// Load resolves a workflow name and parses its file. The returned
// document is the raw decoded mapping; callers validate and decode it.
func (s *Store) Load(name string) (any, string, error) {
	path, err := s.Find(name)
	if err != nil {
		return nil, "", err
	}
	doc, err := LoadPath(path)
	if err != nil {
		return nil, "", err
	}
	return doc, path, nil
}

// Remove deletes every file for the given workflow name.
func (s *Store) Remove(name string) error {
	paths := s.FindAll(name)
	if len(paths) == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		log.Info(log.CatWorkflow, "Removed workflow file", "path", path)
	}
	return nil
}

// LoadPath parses a workflow or config file, resolving the format from
// its extension.
func LoadPath(path string) (any, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExt(ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the user's own config dir or CLI argument
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc any
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return normalizeKeys(doc), nil
}

// SavePath writes a document to path, resolving the format from its
// extension. The write is atomic (temp file + rename).
func SavePath(doc any, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExt(ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	var (
		data []byte
		err  error
	)
	switch ext {
	case ".yaml", ".yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	case ".json":
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	case ".toml":
		data, err = toml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".floww.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func supportedExt(ext string) bool {
	for _, known := range Extensions() {
		if ext == known {
			return true
		}
	}
	return false
}

// normalizeKeys rewrites map[any]any mappings (produced by some decoders
// for nested structures) into map[string]any so the validator sees a
// uniform shape.
func normalizeKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeKeys(item)
		}
		return val
	case map[any]any:
		converted := make(map[string]any, len(val))
		for k, item := range val {
			if key, ok := k.(string); ok {
				converted[key] = normalizeKeys(item)
			}
		}
		return converted
	case []any:
		for i, item := range val {
			val[i] = normalizeKeys(item)
		}
		return val
	default:
		return v
	}
}
