package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"roamers-service/internal/model"
	_ "roamers-service/migrations"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	db    *sqlx.DB
	pgc   *postgres.PostgresContainer
	ctx   context.Context
	users UserRepository
	spots SpotRepository
	tours TourRepository
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("roamers-test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	db, err := sqlx.Connect("pgx", connStr)
	require.NoError(s.T(), err)
	s.db = db

	require.NoError(s.T(), goose.SetDialect("postgres"))
	require.NoError(s.T(), goose.UpContext(s.ctx, db.DB, "../../migrations"))

	s.users = NewPostgresUserRepository(db)
	s.spots = NewPostgresSpotRepository(db)
	s.tours = NewPostgresTourRepository(db)
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *RepositoryIntegrationTestSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, `TRUNCATE users, tourist_spots, community_tours, tour_participants, reviews, favorite_spots, user_device_tokens RESTART IDENTITY CASCADE`)
	require.NoError(s.T(), err)
}

func (s *RepositoryIntegrationTestSuite) newUser(email string) int64 {
	id, err := s.users.Create(s.ctx, &model.User{Username: email, Email: email, PasswordHash: "x", Role: model.RoleUser})
	require.NoError(s.T(), err)
	return id
}

func (s *RepositoryIntegrationTestSuite) newTour() *model.CommunityTour {
	spot, err := s.spots.Create(s.ctx, &model.TouristSpot{Name: "Kelingking", Category: "beach", Location: "Nusa Penida"})
	require.NoError(s.T(), err)
	tour, err := s.tours.Create(s.ctx, &model.CommunityTour{PlaceID: spot.ID, TourDate: time.Now().Add(72 * time.Hour), CostPerPerson: 15})
	require.NoError(s.T(), err)
	return tour
}

func (s *RepositoryIntegrationTestSuite) enrolledCount(tourID int64) (counter, rows int) {
	require.NoError(s.T(), s.db.GetContext(s.ctx, &counter, `SELECT total_enrolled FROM community_tours WHERE id = $1`, tourID))
	require.NoError(s.T(), s.db.GetContext(s.ctx, &rows, `SELECT COUNT(*) FROM tour_participants WHERE tour_id = $1`, tourID))
	return counter, rows
}

func (s *RepositoryIntegrationTestSuite) TestUserRepository_DuplicateEmail() {
	s.newUser("dup@test.com")

	_, err := s.users.Create(s.ctx, &model.User{Username: "again", Email: "dup@test.com", PasswordHash: "x", Role: model.RoleUser})
	assert.ErrorIs(s.T(), err, ErrAlreadyExists)
}

func (s *RepositoryIntegrationTestSuite) TestUserRepository_DuplicateEmailIgnoresCase() {
	s.newUser("case@test.com")

	_, err := s.users.Create(s.ctx, &model.User{Username: "again", Email: "Case@Test.com", PasswordHash: "x", Role: model.RoleUser})
	assert.ErrorIs(s.T(), err, ErrAlreadyExists)
}

func (s *RepositoryIntegrationTestSuite) TestTourRepository_CostRoundedAndBounded() {
	spot, err := s.spots.Create(s.ctx, &model.TouristSpot{Name: "Ulun Danu", Category: "temple", Location: "Tabanan"})
	require.NoError(s.T(), err)

	created, err := s.tours.Create(s.ctx, &model.CommunityTour{PlaceID: spot.ID, TourDate: time.Now().Add(24 * time.Hour), CostPerPerson: 50.555})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 50.56, created.CostPerPerson)

	_, err = s.tours.Create(s.ctx, &model.CommunityTour{PlaceID: spot.ID, TourDate: time.Now().Add(24 * time.Hour), CostPerPerson: 1e12})
	assert.ErrorIs(s.T(), err, ErrValueOutOfRange)
}

func (s *RepositoryIntegrationTestSuite) TestUserRepository_RoleCheckRejectsUnknownRole() {
	_, err := s.users.Create(s.ctx, &model.User{Username: "x", Email: "role@test.com", PasswordHash: "x", Role: "superuser"})
	assert.Error(s.T(), err)
}

func (s *RepositoryIntegrationTestSuite) TestTourRepository_ConcurrentJoinsKeepCounterInSync() {
	tour := s.newTour()

	const joiners = 10
	ids := make([]int64, joiners)
	for i := range ids {
		ids[i] = s.newUser(fmt.Sprintf("joiner-%d@test.com", i))
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for attempt := 0; attempt < 2; attempt++ {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				_, _ = s.tours.AddParticipant(s.ctx, tour.ID, userID)
			}(id)
		}
	}
	wg.Wait()

	counter, rows := s.enrolledCount(tour.ID)
	assert.Equal(s.T(), joiners, rows)
	assert.Equal(s.T(), rows, counter)
}

func (s *RepositoryIntegrationTestSuite) TestTourRepository_DuplicateJoin() {
	tour := s.newTour()
	uid := s.newUser("once@test.com")

	joined, err := s.tours.AddParticipant(s.ctx, tour.ID, uid)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, joined.TotalEnrolled)

	_, err = s.tours.AddParticipant(s.ctx, tour.ID, uid)
	assert.ErrorIs(s.T(), err, ErrAlreadyExists)

	counter, rows := s.enrolledCount(tour.ID)
	assert.Equal(s.T(), 1, counter)
	assert.Equal(s.T(), 1, rows)
}

func (s *RepositoryIntegrationTestSuite) TestTourRepository_DeleteCascadesParticipants() {
	tour := s.newTour()
	uid := s.newUser("cascade@test.com")
	_, err := s.tours.AddParticipant(s.ctx, tour.ID, uid)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.tours.Delete(s.ctx, tour.ID))

	var rows int
	require.NoError(s.T(), s.db.GetContext(s.ctx, &rows, `SELECT COUNT(*) FROM tour_participants WHERE tour_id = $1`, tour.ID))
	assert.Zero(s.T(), rows)
	assert.ErrorIs(s.T(), s.tours.Delete(s.ctx, tour.ID), ErrNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestSpotRepository_MostVisited() {
	tour := s.newTour()
	uid := s.newUser("visitor@test.com")
	_, err := s.tours.AddParticipant(s.ctx, tour.ID, uid)
	require.NoError(s.T(), err)

	popular, err := s.spots.ListMostVisited(s.ctx, 5)
	require.NoError(s.T(), err)
	require.Len(s.T(), popular, 1)
	assert.Equal(s.T(), 1, popular[0].BookingCount)
	assert.Equal(s.T(), "Kelingking", popular[0].Name)
}

func TestRepositoryIntegration(t *testing.T) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("Docker is not available, skipping integration test.")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}
