package subscriber

import (
	"context"

	"github.com/ignite/listkeeper/internal/domain"
)

// Repository defines the record store contract. The collection is always
// read and written as a single unit; the store never addresses individual
// records.
type Repository interface {
	// Load reads the full collection. A missing backing file is the
	// expected first-run state and yields an empty mapping, never an
	// error; an unreadable or corrupt file is handled the same way.
	Load(ctx context.Context) map[string]*domain.Subscriber

	// Save serializes the entire mapping and overwrites the backing file.
	Save(ctx context.Context, subs map[string]*domain.Subscriber) error
}
