package composite

import (
	"context"

	"novatail/internal/application/port"
)

type Repo struct {
	archives []port.Archive
}

func New(archives ...port.Archive) *Repo {
	// nil archives are allowed; filter in constructor for safety
	out := make([]port.Archive, 0, len(archives))
	for _, a := range archives {
		if a != nil {
			out = append(out, a)
		}
	}
	return &Repo{archives: out}
}

func (r *Repo) InsertLines(ctx context.Context, tsMillis int64, instanceID string, lines []string) error {
	var firstErr error
	for _, a := range r.archives {
		if err := a.InsertLines(ctx, tsMillis, instanceID, lines); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertGap(ctx context.Context, tsMillis int64, instanceID string) error {
	var firstErr error
	for _, a := range r.archives {
		if err := a.InsertGap(ctx, tsMillis, instanceID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, a := range r.archives {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.Archive = (*Repo)(nil)
