package driving

import (
	"context"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// StatusService reports live corpus and provider state.
type StatusService interface {
	Status(ctx context.Context) (*domain.IndexStatus, error)
}
