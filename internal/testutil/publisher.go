package testutil

import (
	"sync"

	"roamers-service/internal/model"
)

// RecordingPublisher keeps every published event for assertions.
type RecordingPublisher struct {
	mu      sync.Mutex
	created []int64
	joined  [][2]int64
}

func (p *RecordingPublisher) PublishTourCreated(tour *model.CommunityTour) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, tour.ID)
	return nil
}

func (p *RecordingPublisher) PublishTourJoined(tourID, userID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.joined = append(p.joined, [2]int64{tourID, userID})
	return nil
}

func (p *RecordingPublisher) Created() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.created...)
}

// Joined returns (tourID, userID) pairs in publish order.
func (p *RecordingPublisher) Joined() [][2]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][2]int64(nil), p.joined...)
}
