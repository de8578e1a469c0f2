package poller

import (
	"context"

	"novatail/internal/application/port"
)

type noopArchive struct{}

// NewNoopArchive returns an archive that discards everything. Used when no
// archive backend is configured.
func NewNoopArchive() port.Archive { return &noopArchive{} }

func (n *noopArchive) InsertLines(ctx context.Context, tsMillis int64, instanceID string, lines []string) error {
	return nil
}

func (n *noopArchive) InsertGap(ctx context.Context, tsMillis int64, instanceID string) error {
	return nil
}

func (n *noopArchive) Close() error { return nil }
