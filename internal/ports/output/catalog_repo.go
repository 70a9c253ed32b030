package output

import (
	"context"

	"xcmerge/internal/domain/entities"
)

// CatalogRepository loads and persists string catalogs by path.
type CatalogRepository interface {
	Load(ctx context.Context, path string) (*entities.Catalog, error)
	// Save replaces the stored catalog as a whole; on failure the previous
	// version stays in place.
	Save(ctx context.Context, path string, catalog *entities.Catalog) error
	// Preview returns a displayable patch of what Save would change.
	Preview(ctx context.Context, path string, catalog *entities.Catalog) ([]byte, error)
}
