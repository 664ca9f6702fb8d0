package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 2 * time.Second
)

// HandlerFunc processes one message payload. A returned error triggers a retry.
type HandlerFunc func(ctx context.Context, data []byte) error

// SubscribeConn is the part of *nats.Conn a Subscriber needs.
type SubscribeConn interface {
	Conn
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Subscriber runs a handler for every message on a subject. Messages that
// still fail after MaxAttempts are forwarded to "<subject>.failed".
type Subscriber struct {
	conn        SubscribeConn
	subject     string
	handler     HandlerFunc
	MaxAttempts int
	RetryDelay  time.Duration
}

func NewSubscriber(conn SubscribeConn, subject string, handler HandlerFunc) *Subscriber {
	return &Subscriber{
		conn:        conn,
		subject:     subject,
		handler:     handler,
		MaxAttempts: defaultMaxAttempts,
		RetryDelay:  defaultRetryDelay,
	}
}

func (s *Subscriber) DeadLetterSubject() string {
	return s.subject + ".failed"
}

func (s *Subscriber) Start() (*nats.Subscription, error) {
	sub, err := s.conn.Subscribe(s.subject, s.handle)
	if err != nil {
		return nil, err
	}
	slog.Info("subscriber listening", "subject", s.subject)
	return sub, nil
}

func (s *Subscriber) handle(msg *nats.Msg) {
	s.Process(context.Background(), msg.Data)
}

// Process runs the handler with retries and dead-letters the payload on final failure.
func (s *Subscriber) Process(ctx context.Context, data []byte) {
	var lastErr error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		lastErr = s.handler(ctx, data)
		if lastErr == nil {
			return
		}

		slog.Warn("event handler failed", "subject", s.subject, "attempt", attempt, "error", lastErr)
		if attempt < s.MaxAttempts {
			time.Sleep(s.RetryDelay)
		}
	}

	slog.Error("event handler gave up", "subject", s.subject, "attempts", s.MaxAttempts, "error", lastErr)

	if err := s.conn.Publish(s.DeadLetterSubject(), data); err != nil {
		slog.Error("publish to dead letter subject", "subject", s.DeadLetterSubject(), "error", err)
	}
}
