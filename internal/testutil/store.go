// Package testutil provides in-memory repositories with the same error
// behaviour as the Postgres ones, for service and HTTP tests.
package testutil

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"roamers-service/internal/model"
	"roamers-service/internal/repository"
)

type participation struct {
	tourID   int64
	userID   int64
	joinedAt time.Time
}

type favorite struct {
	userID    int64
	spotID    int64
	createdAt time.Time
}

// Store is a mutex-guarded stand-in for the database.
type Store struct {
	mu sync.Mutex

	nextID       int64
	users        map[int64]*model.User
	spots        map[int64]*model.TouristSpot
	tours        map[int64]*model.CommunityTour
	participants []participation
	reviews      map[int64]*model.Review
	favorites    []favorite
	deviceTokens map[string]int64
}

func NewStore() *Store {
	return &Store{
		users:        map[int64]*model.User{},
		spots:        map[int64]*model.TouristSpot{},
		tours:        map[int64]*model.CommunityTour{},
		reviews:      map[int64]*model.Review{},
		deviceTokens: map[string]int64{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() repository.UserRepository               { return userRepo{s} }
func (s *Store) Spots() repository.SpotRepository               { return spotRepo{s} }
func (s *Store) Tours() repository.TourRepository               { return tourRepo{s} }
func (s *Store) Reviews() repository.ReviewRepository           { return reviewRepo{s} }
func (s *Store) Favorites() repository.FavoriteRepository       { return favoriteRepo{s} }
func (s *Store) DeviceTokens() repository.DeviceTokenRepository { return deviceTokenRepo{s} }

// ParticipantCount returns the number of participation rows for a tour.
func (s *Store) ParticipantCount(tourID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.participants {
		if p.tourID == tourID {
			n++
		}
	}
	return n
}

// SetRole changes a stored user's role, as an operator would in the database.
func (s *Store) SetRole(userID int64, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Role = role
	}
}

// DeleteUser removes a user row.
func (s *Store) DeleteUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *model.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return 0, repository.ErrAlreadyExists
		}
	}
	stored := *user
	stored.ID = r.s.id()
	if stored.Role == "" {
		stored.Role = model.RoleUser
	}
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	copied.PasswordHash = ""
	return &copied, nil
}

func (r userRepo) UpdateLocation(_ context.Context, id int64, location string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Location = &location
	u.UpdatedAt = time.Now()
	return nil
}

func (r userRepo) UpsertAdmin(_ context.Context, user *model.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			u.Role = model.RoleAdmin
			u.PasswordHash = user.PasswordHash
			return u.ID, nil
		}
	}
	stored := *user
	stored.ID = r.s.id()
	stored.Role = model.RoleAdmin
	r.s.users[stored.ID] = &stored
	return stored.ID, nil
}

type spotRepo struct{ s *Store }

func (r spotRepo) Create(_ context.Context, spot *model.TouristSpot) (*model.TouristSpot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	spot.ID = r.s.id()
	spot.CreatedAt = time.Now()
	stored := *spot
	r.s.spots[stored.ID] = &stored
	return spot, nil
}

func (r spotRepo) FindByID(_ context.Context, id int64) (*model.TouristSpot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	spot, ok := r.s.spots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *spot
	return &copied, nil
}

func (r spotRepo) filter(keep func(*model.TouristSpot) bool) []model.TouristSpot {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	spots := []model.TouristSpot{}
	for _, spot := range r.s.spots {
		if keep(spot) {
			spots = append(spots, *spot)
		}
	}
	sort.Slice(spots, func(i, j int) bool { return spots[i].ID < spots[j].ID })
	return spots
}

func (r spotRepo) List(_ context.Context, category string) ([]model.TouristSpot, error) {
	return r.filter(func(spot *model.TouristSpot) bool {
		return category == "" || spot.Category == category
	}), nil
}

func (r spotRepo) ListByLocation(_ context.Context, location string) ([]model.TouristSpot, error) {
	return r.filter(func(spot *model.TouristSpot) bool {
		return strings.EqualFold(spot.Location, location)
	}), nil
}

func (r spotRepo) ListMostVisited(_ context.Context, limit int) ([]model.PopularSpot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[int64]int{}
	for _, tour := range r.s.tours {
		counts[tour.PlaceID] += tour.TotalEnrolled
	}
	popular := []model.PopularSpot{}
	for spotID, count := range counts {
		spot, ok := r.s.spots[spotID]
		if !ok || count == 0 {
			continue
		}
		popular = append(popular, model.PopularSpot{TouristSpot: *spot, BookingCount: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].BookingCount != popular[j].BookingCount {
			return popular[i].BookingCount > popular[j].BookingCount
		}
		return popular[i].ID < popular[j].ID
	})
	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

type tourRepo struct{ s *Store }

// numericCost mimics a NUMERIC(10,2) column: rounded to cents, at most eight integer digits.
func numericCost(cost float64) (float64, error) {
	rounded := math.Round(cost*100) / 100
	if math.Abs(rounded) >= 1e8 {
		return 0, repository.ErrValueOutOfRange
	}
	return rounded, nil
}

func (r tourRepo) Create(_ context.Context, tour *model.CommunityTour) (*model.CommunityTour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.spots[tour.PlaceID]; !ok {
		return nil, repository.ErrReferenceMissing
	}
	cost, err := numericCost(tour.CostPerPerson)
	if err != nil {
		return nil, err
	}
	tour.CostPerPerson = cost
	tour.ID = r.s.id()
	tour.TotalEnrolled = 0
	tour.CreatedAt = time.Now()
	stored := *tour
	r.s.tours[stored.ID] = &stored
	return tour, nil
}

func (r tourRepo) FindByID(_ context.Context, id int64) (*model.CommunityTour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tour, ok := r.s.tours[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *tour
	return &copied, nil
}

func (r tourRepo) List(_ context.Context) ([]model.TourListing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	listings := []model.TourListing{}
	for _, tour := range r.s.tours {
		spot, ok := r.s.spots[tour.PlaceID]
		if !ok {
			continue
		}
		listings = append(listings, model.TourListing{CommunityTour: *tour, Place: spot.Name, PlaceLocation: spot.Location})
	}
	sort.Slice(listings, func(i, j int) bool {
		if !listings[i].TourDate.Equal(listings[j].TourDate) {
			return listings[i].TourDate.Before(listings[j].TourDate)
		}
		return listings[i].ID < listings[j].ID
	})
	return listings, nil
}

func (r tourRepo) Update(_ context.Context, id int64, changes repository.TourChanges) (*model.CommunityTour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tour, ok := r.s.tours[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cost := tour.CostPerPerson
	if changes.CostPerPerson != nil {
		var err error
		if cost, err = numericCost(*changes.CostPerPerson); err != nil {
			return nil, err
		}
	}
	if changes.PlaceID != nil {
		if _, ok := r.s.spots[*changes.PlaceID]; !ok {
			return nil, repository.ErrReferenceMissing
		}
		tour.PlaceID = *changes.PlaceID
	}
	if changes.TourDate != nil {
		tour.TourDate = *changes.TourDate
	}
	tour.CostPerPerson = cost
	copied := *tour
	return &copied, nil
}

func (r tourRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tours[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tours, id)
	kept := r.s.participants[:0]
	for _, p := range r.s.participants {
		if p.tourID != id {
			kept = append(kept, p)
		}
	}
	r.s.participants = kept
	return nil
}

func (r tourRepo) HasParticipant(_ context.Context, tourID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.participants {
		if p.tourID == tourID && p.userID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r tourRepo) AddParticipant(_ context.Context, tourID, userID int64) (*model.CommunityTour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tour, ok := r.s.tours[tourID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, p := range r.s.participants {
		if p.tourID == tourID && p.userID == userID {
			return nil, repository.ErrAlreadyExists
		}
	}
	r.s.participants = append(r.s.participants, participation{tourID: tourID, userID: userID, joinedAt: time.Now()})
	tour.TotalEnrolled++
	copied := *tour
	return &copied, nil
}

func (r tourRepo) ListParticipants(_ context.Context, tourID int64) ([]model.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	participants := []model.Participant{}
	for _, p := range r.s.participants {
		if p.tourID != tourID {
			continue
		}
		u, ok := r.s.users[p.userID]
		if !ok {
			continue
		}
		participants = append(participants, model.Participant{UserID: u.ID, Username: u.Username, Email: u.Email, JoinedAt: p.joinedAt})
	}
	return participants, nil
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(_ context.Context, review *model.Review) (*model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.spots[review.SpotID]; !ok {
		return nil, repository.ErrReferenceMissing
	}
	review.ID = r.s.id()
	review.CreatedAt = time.Now()
	stored := *review
	r.s.reviews[stored.ID] = &stored
	return review, nil
}

func (r reviewRepo) ListBySpot(_ context.Context, spotID int64) ([]model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reviews := []model.Review{}
	for _, review := range r.s.reviews {
		if review.SpotID != spotID {
			continue
		}
		copied := *review
		if u, ok := r.s.users[review.UserID]; ok {
			copied.Username = u.Username
		}
		reviews = append(reviews, copied)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID > reviews[j].ID })
	return reviews, nil
}

func (r reviewRepo) FindByIDAndUser(_ context.Context, id, userID int64) (*model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[id]
	if !ok || review.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *review
	return &copied, nil
}

func (r reviewRepo) Update(_ context.Context, review *model.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.reviews[review.ID]
	if !ok || stored.UserID != review.UserID {
		return repository.ErrNotFound
	}
	stored.Rating = review.Rating
	stored.Comment = review.Comment
	return nil
}

func (r reviewRepo) Delete(_ context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.reviews[id]
	if !ok || stored.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

type favoriteRepo struct{ s *Store }

func (r favoriteRepo) Add(_ context.Context, userID, spotID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.spots[spotID]; !ok {
		return repository.ErrReferenceMissing
	}
	for _, f := range r.s.favorites {
		if f.userID == userID && f.spotID == spotID {
			return repository.ErrAlreadyExists
		}
	}
	r.s.favorites = append(r.s.favorites, favorite{userID: userID, spotID: spotID, createdAt: time.Now()})
	return nil
}

func (r favoriteRepo) ListByUser(_ context.Context, userID int64) ([]model.TouristSpot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	spots := []model.TouristSpot{}
	for i := len(r.s.favorites) - 1; i >= 0; i-- {
		f := r.s.favorites[i]
		if f.userID != userID {
			continue
		}
		if spot, ok := r.s.spots[f.spotID]; ok {
			spots = append(spots, *spot)
		}
	}
	return spots, nil
}

func (r favoriteRepo) Remove(_ context.Context, userID, spotID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, f := range r.s.favorites {
		if f.userID == userID && f.spotID == spotID {
			r.s.favorites = append(r.s.favorites[:i], r.s.favorites[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type deviceTokenRepo struct{ s *Store }

func (r deviceTokenRepo) Register(_ context.Context, userID int64, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deviceTokens[token] = userID
	return nil
}

func (r deviceTokenRepo) ListByUser(_ context.Context, userID int64) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var tokens []string
	for token, owner := range r.s.deviceTokens {
		if owner == userID {
			tokens = append(tokens, token)
		}
	}
	sort.Strings(tokens)
	return tokens, nil
}
