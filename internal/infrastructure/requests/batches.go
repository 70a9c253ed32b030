package requests

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
)

//go:embed batches/*.yaml
var batchFS embed.FS

// BatchInfo describes an embedded batch.
type BatchInfo struct {
	Name        string
	Description string
	Locale      string
	Policy      string
	Size        int
}

// Batches resolves embedded translation batches by name.
type Batches struct {
	fsys fs.FS
}

// NewBatches returns the batches shipped with the binary.
func NewBatches() *Batches {
	return &Batches{fsys: batchFS}
}

// Load returns the batch called name, e.g. "core".
func (b *Batches) Load(name string) (entities.UpdateRequest, error) {
	name = strings.TrimSpace(name)
	data, err := fs.ReadFile(b.fsys, path.Join("batches", name+".yaml"))
	if err != nil {
		return entities.UpdateRequest{}, fmt.Errorf("%w: %q", domain.ErrUnknownBatch, name)
	}
	return Parse(name, FormatYAML, data)
}

// List returns every embedded batch sorted by name.
func (b *Batches) List() ([]BatchInfo, error) {
	matches, err := fs.Glob(b.fsys, "batches/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	infos := make([]BatchInfo, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), ".yaml")
		req, err := b.Load(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, BatchInfo{
			Name:        name,
			Description: req.Description,
			Locale:      req.Locale,
			Policy:      req.Policy,
			Size:        req.Len(),
		})
	}
	return infos, nil
}
