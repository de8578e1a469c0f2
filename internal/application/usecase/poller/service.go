package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"novatail/internal/application/port"
	"novatail/internal/domain/model"

	"github.com/rs/zerolog/log"
)

// GapNotice is emitted inline in the output stream when the console buffer
// wrapped and the tracked position was lost, so the discontinuity is
// visible wherever the output is captured.
const GapNotice = "*** novatail: console tracking lost - gap in captured output ***"

const defaultInterval = 30 * time.Second

type Deps struct {
	Gateway    port.Gateway
	Sink       port.Sink
	Archive    port.Archive
	InstanceID string
	Interval   time.Duration
	Prefix     bool
}

// Service polls one instance's console and streams new lines to the sink.
// Single-threaded by design: one poll in flight at a time, the marker is
// touched only by the poll path.
type Service struct {
	deps   Deps
	marker Marker
	name   string
}

func NewService(deps Deps) *Service {
	if deps.Archive == nil {
		deps.Archive = NewNoopArchive()
	}
	if deps.Interval <= 0 {
		deps.Interval = defaultInterval
	}
	return &Service{deps: deps}
}

// Resolve validates that the target instance exists. Called once before
// the poll loop starts; a missing instance is fatal.
func (s *Service) Resolve(ctx context.Context) (*model.Instance, error) {
	log.Info().Str("instance", s.deps.InstanceID).Msg("validating instance")
	inst, err := s.deps.Gateway.GetInstance(ctx, s.deps.InstanceID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, fmt.Errorf("instance %s not found, verify the instance UUID: %w",
				s.deps.InstanceID, err)
		}
		return nil, fmt.Errorf("resolve instance %s: %w", s.deps.InstanceID, err)
	}
	s.name = inst.Name
	log.Info().Str("instance", inst.ID).Str("name", inst.Name).Msg("instance validated")
	return inst, nil
}

// PollOnce performs a single poll cycle. Nothing in here may kill the
// process: transport failures are logged and the cycle is skipped with the
// marker untouched; power-off observations reset the marker.
func (s *Service) PollOnce(ctx context.Context) {
	inst, err := s.deps.Gateway.GetInstance(ctx, s.deps.InstanceID)
	if err != nil {
		log.Warn().Str("instance", s.deps.InstanceID).Err(err).Msg("power state check failed")
		return
	}
	s.name = inst.Name

	if !inst.PowerState.IsOn() {
		log.Debug().Str("instance", inst.ID).Stringer("state", inst.PowerState).
			Msg("instance not powered on, resetting marker")
		s.marker.Reset()
		return
	}

	raw, err := s.deps.Gateway.GetConsoleOutput(ctx, s.deps.InstanceID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			// The console can vanish between the power state check and the
			// fetch when the instance shuts down. Re-check before deciding
			// whether this was expected.
			cur, cerr := s.deps.Gateway.GetInstance(ctx, s.deps.InstanceID)
			if cerr == nil && !cur.PowerState.IsOn() {
				log.Debug().Str("instance", s.deps.InstanceID).Stringer("state", cur.PowerState).
					Msg("console unavailable, instance not powered on")
				s.marker.Reset()
				return
			}
		}
		log.Warn().Str("instance", s.deps.InstanceID).Err(err).Msg("console fetch failed")
		return
	}

	s.process(ctx, raw)
}

func (s *Service) process(ctx context.Context, raw string) {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return
	}

	newLines, gap := s.marker.NewLines(lines)
	if gap {
		log.Warn().Str("instance", s.deps.InstanceID).
			Msg("console buffer wrapped, previous output marker not found, some messages may have been lost")
	}
	if len(newLines) == 0 {
		return
	}

	out := make([]string, 0, len(newLines)+1)
	if gap {
		out = append(out, s.prefixed(GapNotice))
	}
	for _, line := range newLines {
		out = append(out, s.prefixed(line))
	}
	if err := s.deps.Sink.WriteLines(out); err != nil {
		log.Error().Err(err).Msg("sink write failed")
	}
	if err := s.deps.Sink.Flush(); err != nil {
		log.Error().Err(err).Msg("sink flush failed")
	}

	// Marker advances only on polls that produced output, anchored on the
	// full snapshot rather than the new-lines subset.
	s.marker.Advance(lines)

	ts := time.Now().UnixMilli()
	if gap {
		if err := s.deps.Archive.InsertGap(ctx, ts, s.deps.InstanceID); err != nil {
			log.Error().Err(err).Msg("archive gap insert failed")
		}
	}
	if err := s.deps.Archive.InsertLines(ctx, ts, s.deps.InstanceID, newLines); err != nil {
		log.Error().Err(err).Msg("archive insert failed")
	}
}

func (s *Service) prefixed(line string) string {
	if !s.deps.Prefix {
		return line
	}
	return fmt.Sprintf("[%s] %s", s.name, line)
}

// Run polls until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	log.Info().Str("instance", s.deps.InstanceID).Dur("interval", s.deps.Interval).
		Msg("console poller started")
	for {
		s.PollOnce(ctx)
		if err := s.idle(ctx); err != nil {
			log.Info().Msg("console poller stopped")
			return err
		}
	}
}

// idle waits out the poll interval in one-second slices so a stop signal
// takes effect within about a second instead of a full interval.
func (s *Service) idle(ctx context.Context) error {
	deadline := time.Now().Add(s.deps.Interval)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		step := time.Second
		if remaining < step {
			step = remaining
		}
		timer := time.NewTimer(step)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
