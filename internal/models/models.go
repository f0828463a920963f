// package models defines the data model for the character sheet service
package models

import (
	"context"
)

// Repository defines the interface for data access operations.
// Implementations handle storage interactions for specific model types.
type Repository[T any] interface {
	Create(ctx context.Context, model *T) error       // Create inserts a new model and assigns its ID
	Get(ctx context.Context, id int) (*T, error)      // Get retrieves a model by its ID
	Update(ctx context.Context, model *T) error       // Update modifies an existing model
	Delete(ctx context.Context, id int) (bool, error) // Delete removes a model, reporting whether it existed
	List(ctx context.Context) ([]T, error)            // List retrieves all models ordered by ID
}
