package output

import (
	"context"

	"xcmerge/internal/domain/entities"
)

// Notifier announces a finished run that changed a catalog.
type Notifier interface {
	NotifyRun(ctx context.Context, run *entities.MergeRun) error
}
