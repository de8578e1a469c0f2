package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"novatail/internal/application/port"
)

type Repo struct {
	rdb     *redis.Client
	stream  string
	channel string
}

// New builds a redis archive. Lines land on a stream for durable
// consumption; gap notices are additionally published so live subscribers
// see continuity losses immediately.
func New(rdb *redis.Client, stream, channel string) *Repo {
	if strings.TrimSpace(stream) == "" {
		stream = "novatail:console"
	}
	if strings.TrimSpace(channel) == "" {
		channel = "novatail:gaps"
	}
	return &Repo{rdb: rdb, stream: stream, channel: channel}
}

func (r *Repo) InsertLines(ctx context.Context, tsMillis int64, instanceID string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	pipe := r.rdb.Pipeline()
	for i, line := range lines {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: r.stream,
			Values: map[string]any{
				"ts_ms":    tsMillis,
				"instance": instanceID,
				"seq":      i,
				"line":     line,
			},
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertGap(ctx context.Context, tsMillis int64, instanceID string) error {
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"ts_ms":    tsMillis,
			"instance": instanceID,
			"gap":      1,
		},
	}).Result()
	if err != nil {
		return err
	}

	msg := fmt.Sprintf(`{"ts_ms":%d,"instance":%q,"event":"gap"}`, tsMillis, instanceID)
	return r.rdb.Publish(ctx, r.channel, msg).Err()
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.Archive = (*Repo)(nil)
