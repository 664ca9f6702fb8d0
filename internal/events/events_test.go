package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"roamers-service/internal/events"
	"roamers-service/internal/model"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func (f *fakeConn) Subscribe(string, nats.MsgHandler) (*nats.Subscription, error) {
	return &nats.Subscription{}, nil
}

func TestNatsPublisher_PublishTourJoined(t *testing.T) {
	conn := &fakeConn{}
	p := events.NewPublisher(conn)

	require.NoError(t, p.PublishTourJoined(3, 9))
	require.Len(t, conn.msgs, 1)
	require.Equal(t, events.SubjectTourJoined, conn.msgs[0].subject)

	var ev events.TourJoinedEvent
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &ev))
	require.Equal(t, "tour.joined", ev.EventType)
	require.Equal(t, int64(3), ev.TourID)
	require.Equal(t, int64(9), ev.UserID)
}

func TestNatsPublisher_PublishTourCreated(t *testing.T) {
	conn := &fakeConn{}
	p := events.NewPublisher(conn)

	tour := &model.CommunityTour{ID: 1, PlaceID: 2, TourDate: time.Now().Add(time.Hour), CostPerPerson: 50}
	require.NoError(t, p.PublishTourCreated(tour))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &decoded))
	require.Equal(t, "tour.created", decoded["event_type"])
	require.Equal(t, float64(50), decoded["cost_per_person"])
}

func TestNatsPublisher_PropagatesConnError(t *testing.T) {
	p := events.NewPublisher(&fakeConn{err: errors.New("nats down")})
	require.Error(t, p.PublishTourJoined(1, 1))
}

func TestSubscriber_RetriesThenSucceeds(t *testing.T) {
	conn := &fakeConn{}
	calls := 0
	s := events.NewSubscriber(conn, events.SubjectTourJoined, func(ctx context.Context, data []byte) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	s.RetryDelay = time.Millisecond

	s.Process(context.Background(), []byte(`{}`))
	require.Equal(t, 2, calls)
	require.Empty(t, conn.msgs)
}

func TestSubscriber_DeadLettersAfterMaxAttempts(t *testing.T) {
	conn := &fakeConn{}
	calls := 0
	s := events.NewSubscriber(conn, events.SubjectTourJoined, func(ctx context.Context, data []byte) error {
		calls++
		return errors.New("always")
	})
	s.RetryDelay = time.Millisecond

	s.Process(context.Background(), []byte(`{"tour_id":1}`))
	require.Equal(t, 3, calls)
	require.Len(t, conn.msgs, 1)
	require.Equal(t, "tour.joined.failed", conn.msgs[0].subject)
	require.JSONEq(t, `{"tour_id":1}`, string(conn.msgs[0].data))
}
