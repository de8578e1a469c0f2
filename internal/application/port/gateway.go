package port

import (
	"context"
	"errors"

	"novatail/internal/domain/model"
)

// ErrNotFound is returned by the gateway when the cloud API answers 404,
// either because the instance does not exist or because its console is
// unavailable. The caller disambiguates with a fresh GetInstance.
var ErrNotFound = errors.New("resource not found")

// Gateway is the compute API surface the poller needs.
type Gateway interface {
	// GetInstance returns a fresh point-in-time view of the instance.
	GetInstance(ctx context.Context, id string) (*model.Instance, error)

	// GetConsoleOutput dumps the instance's current console buffer.
	GetConsoleOutput(ctx context.Context, id string) (string, error)
}
