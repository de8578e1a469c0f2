package port

import "context"

// Archive persists captured console lines. Implementations must tolerate
// being called once per poll batch; a failing archive never affects
// tracking state.
type Archive interface {
	// InsertLines stores one poll's batch of newly captured lines.
	InsertLines(ctx context.Context, tsMillis int64, instanceID string, lines []string) error

	// InsertGap records a continuity loss (console buffer wrap).
	InsertGap(ctx context.Context, tsMillis int64, instanceID string) error

	// Connection management
	Close() error
}
