package xcstrings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonpatch "github.com/evanphx/json-patch"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
	"xcmerge/internal/ports/output"
	"xcmerge/pkg/jsonobj"
)

// Ensure Store implements the output.CatalogRepository port.
var _ output.CatalogRepository = (*Store)(nil)

// StyleAuto keeps the key separator style found in the loaded file.
const StyleAuto = "auto"

const defaultFileMode os.FileMode = 0o644

// Store loads catalogs from disk and writes them back atomically, in the
// layout they were read with.
type Store struct {
	style *jsonobj.Style

	mu     sync.Mutex
	loaded map[string]loadedFile
}

type loadedFile struct {
	raw    []byte
	layout Layout
}

// NewStore returns a Store. style is "auto", "json" or "xcode".
func NewStore(style string) (*Store, error) {
	s := &Store{loaded: make(map[string]loadedFile)}
	if style == "" || strings.EqualFold(style, StyleAuto) {
		return s, nil
	}
	st, err := jsonobj.ParseStyle(style)
	if err != nil {
		return nil, err
	}
	s.style = &st
	return s, nil
}

// Load reads and decodes the catalog at path.
func (s *Store) Load(ctx context.Context, path string) (*entities.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoad, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoad, err)
	}
	c, layout, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLoad, path, err)
	}

	s.mu.Lock()
	s.loaded[path] = loadedFile{raw: data, layout: layout}
	s.mu.Unlock()
	return c, nil
}

// Save encodes c and replaces the file at path through a temporary file and
// a rename, so readers see either the old or the new document.
func (s *Store) Save(ctx context.Context, path string, c *entities.Catalog) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}
	layout := s.layoutFor(path)
	data, err := Encode(c, layout)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrPersist, err)
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}

	s.mu.Lock()
	s.loaded[path] = loadedFile{raw: data, layout: layout}
	s.mu.Unlock()
	return nil
}

// Preview returns the JSON merge patch (RFC 7386) that saving c would apply
// to the file at path, indented for display. An unchanged catalog yields "{}".
func (s *Store) Preview(ctx context.Context, path string, c *entities.Catalog) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	after, err := Encode(c, s.layoutFor(path))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	lf, ok := s.loaded[path]
	s.mu.Unlock()
	before := lf.raw
	if !ok {
		if before, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLoad, err)
		}
	}
	return Diff(before, after)
}

func (s *Store) layoutFor(path string) Layout {
	s.mu.Lock()
	lf, ok := s.loaded[path]
	s.mu.Unlock()

	layout := Layout{Style: jsonobj.StyleJSON}
	if ok {
		layout = lf.layout
	}
	if s.style != nil {
		layout.Style = *s.style
	}
	return layout
}

// Diff computes the merge patch turning before into after.
func Diff(before, after []byte) ([]byte, error) {
	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	var v any
	if err := json.Unmarshal(patch, &v); err != nil {
		return nil, err
	}
	compact, err := jsonobj.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jsonobj.Indent(&buf, compact, indent, jsonobj.StyleJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic replaces the file at path. A symlinked path is resolved first
// so the link keeps pointing at the updated file.
func writeAtomic(path string, data []byte) (err error) {
	if resolved, evalErr := filepath.EvalSymlinks(path); evalErr == nil {
		path = resolved
	}
	mode := defaultFileMode
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
