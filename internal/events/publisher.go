package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"roamers-service/internal/model"
)

const (
	SubjectTourCreated = "tour.created"
	SubjectTourJoined  = "tour.joined"
)

type EventPublisher interface {
	PublishTourCreated(tour *model.CommunityTour) error
	PublishTourJoined(tourID, userID int64) error
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

type NatsPublisher struct {
	conn Conn
	now  func() time.Time
}

func NewNatsPublisher(natsURL string) (*NatsPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(natsURL, nats.Name("roamers-service"))
	if err != nil {
		return nil, nil, err
	}
	return NewPublisher(nc), nc, nil
}

func NewPublisher(conn Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn, now: time.Now}
}

type TourCreatedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       uuid.UUID `json:"event_id"`
	TourID        int64     `json:"tour_id"`
	PlaceID       int64     `json:"place_id"`
	TourDate      time.Time `json:"tour_date"`
	CostPerPerson float64   `json:"cost_per_person"`
}

type TourJoinedEvent struct {
	EventType string    `json:"event_type"`
	EventID   uuid.UUID `json:"event_id"`
	TourID    int64     `json:"tour_id"`
	UserID    int64     `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (p *NatsPublisher) PublishTourCreated(tour *model.CommunityTour) error {
	event := TourCreatedEvent{
		EventType:     SubjectTourCreated,
		EventID:       uuid.New(),
		TourID:        tour.ID,
		PlaceID:       tour.PlaceID,
		TourDate:      tour.TourDate,
		CostPerPerson: tour.CostPerPerson,
	}
	return p.publish(SubjectTourCreated, event)
}

func (p *NatsPublisher) PublishTourJoined(tourID, userID int64) error {
	event := TourJoinedEvent{
		EventType: SubjectTourJoined,
		EventID:   uuid.New(),
		TourID:    tourID,
		UserID:    userID,
		JoinedAt:  p.now().UTC(),
	}
	return p.publish(SubjectTourJoined, event)
}

func (p *NatsPublisher) publish(subject string, event any) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal event", "subject", subject, "error", err)
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		slog.Error("publish to NATS", "subject", subject, "error", err)
		return err
	}

	slog.Debug("published event", "subject", subject)
	return nil
}

// NopPublisher drops every event. Used when NATS_URL is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishTourCreated(*model.CommunityTour) error { return nil }

func (NopPublisher) PublishTourJoined(int64, int64) error { return nil }
