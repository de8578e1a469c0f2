package wsforward

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"novatail/internal/application/port"
)

// Sink forwards captured lines to a collector over a websocket, one text
// message per line. Forwarding is best effort: dial and write failures are
// logged and the batch dropped, never propagated into the poll cycle. The
// connection is re-established on the next batch after a failure.
type Sink struct {
	url  string
	conn *websocket.Conn
}

func New(url string) *Sink {
	return &Sink{url: url}
}

func (s *Sink) connect() error {
	if s.conn != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	s.conn = conn
	log.Info().Str("url", s.url).Msg("forward sink connected")
	return nil
}

func (s *Sink) WriteLines(lines []string) error {
	if err := s.connect(); err != nil {
		log.Warn().Str("url", s.url).Err(err).Msg("forward dial failed, dropping batch")
		return nil
	}
	for _, line := range lines {
		if err := s.conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			log.Warn().Str("url", s.url).Err(err).Msg("forward write failed, reconnecting on next batch")
			_ = s.conn.Close()
			s.conn = nil
			return nil
		}
	}
	return nil
}

func (s *Sink) Flush() error { return nil }

func (s *Sink) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

var _ port.Sink = (*Sink)(nil)
