package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"roamers-service/internal/config"
	"roamers-service/internal/events"
	"roamers-service/internal/repository"
)

// Pusher is satisfied by *apns2.Client.
type Pusher interface {
	Push(n *apns2.Notification) (*apns2.Response, error)
}

// Worker turns tour.joined events into push notifications on the joiner's devices.
type Worker struct {
	pusher Pusher
	tokens repository.DeviceTokenRepository
	topic  string
}

// NewWorker builds a worker. A nil pusher runs it in mock mode, logging
// instead of pushing.
func NewWorker(pusher Pusher, tokens repository.DeviceTokenRepository, topic string) *Worker {
	return &Worker{pusher: pusher, tokens: tokens, topic: topic}
}

// NewAPNSClient returns nil without error when credentials are not configured.
func NewAPNSClient(cfg config.APNSConfig) (*apns2.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.AuthKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read APNs auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	client.HTTPClient.Transport = otelhttp.NewTransport(client.HTTPClient.Transport)
	if cfg.Mode == "production" {
		return client.Production(), nil
	}
	return client.Development(), nil
}

// HandleTourJoined is an events.HandlerFunc. Only a failed token lookup is
// returned as an error; push failures are logged so devices are never pushed twice.
func (w *Worker) HandleTourJoined(ctx context.Context, data []byte) error {
	var event events.TourJoinedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.ErrorContext(ctx, "discarding malformed tour.joined event", "error", err)
		return nil
	}

	tokens, err := w.tokens.ListByUser(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("list device tokens for user %d: %w", event.UserID, err)
	}

	if len(tokens) == 0 {
		slog.InfoContext(ctx, "no device tokens, nothing to push", "user_id", event.UserID, "tour_id", event.TourID)
		return nil
	}

	body := payload.NewPayload().
		AlertTitle("Tour booked").
		AlertBody(fmt.Sprintf("You have joined community tour #%d.", event.TourID)).
		Sound("default").
		Custom("tour_id", event.TourID)

	for _, deviceToken := range tokens {
		notification := &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       w.topic,
			Payload:     body,
		}

		if w.pusher == nil {
			slog.InfoContext(ctx, "mock push sent", "device_token", deviceToken, "tour_id", event.TourID)
			continue
		}

		res, err := w.pusher.Push(notification)
		switch {
		case err != nil:
			slog.ErrorContext(ctx, "push failed", "device_token", deviceToken, "error", err)
		case res.Sent():
			slog.InfoContext(ctx, "push sent", "apns_id", res.ApnsID, "user_id", event.UserID)
		default:
			slog.WarnContext(ctx, "push rejected", "reason", res.Reason, "status", res.StatusCode)
		}
	}

	return nil
}
