package models

import (
	"context"
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	GetID() string        // GetID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model, Q any] interface {
	Create(ctx context.Context, model T) error      // Create inserts a new model into the database
	Get(ctx context.Context, id string) (T, error)  // Get retrieves a model by its ID
	Delete(ctx context.Context, id string) error    // Delete removes a model from the database by its ID
	List(ctx context.Context, query Q) ([]T, error) // List retrieves all models matching the given query
}
