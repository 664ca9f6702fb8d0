package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"roamers-service/internal/api"
	"roamers-service/internal/jwt"
	"roamers-service/internal/service"
	"roamers-service/internal/testutil"
)

type testServer struct {
	app   *fiber.App
	store *testutil.Store
	pub   *testutil.RecordingPublisher
	auth  service.AuthService
}

type fakePresigner struct{}

func (fakePresigner) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string) (string, error) {
	return "http://s3.local/spots/" + objectKey + "?X-Amz-Signature=sig", nil
}

func (fakePresigner) PublicURL(objectKey string) string {
	return "http://s3.local/spots/" + objectKey
}

func newTestServer(t *testing.T, cfg api.AppConfig, presigner api.ImagePresigner) *testServer {
	t.Helper()
	store := testutil.NewStore()
	pub := &testutil.RecordingPublisher{}
	tokens := jwt.NewTokenManager("api-test-secret", "roamers-test", 24*time.Hour)

	authService := service.NewAuthService(store.Users(), tokens)
	handlers := api.Handlers{
		Auth:     api.NewAuthHandler(authService),
		User:     api.NewUserHandler(service.NewUserService(store.Users(), store.DeviceTokens())),
		Tour:     api.NewTourHandler(service.NewTourService(store.Tours(), store.Spots(), pub)),
		Spot:     api.NewSpotHandler(service.NewSpotService(store.Spots(), store.Users()), presigner),
		Review:   api.NewReviewHandler(service.NewReviewService(store.Reviews(), store.Spots())),
		Favorite: api.NewFavoriteHandler(service.NewFavoriteService(store.Favorites())),
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "roamers-test"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return &testServer{
		app:   api.NewApp(cfg, authService, handlers),
		store: store,
		pub:   pub,
		auth:  authService,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	status, raw := s.doRaw(t, method, path, token, body)
	decoded := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return status, decoded
}

func (s *testServer) doList(t *testing.T, method, path, token string) (int, []map[string]any) {
	t.Helper()
	status, raw := s.doRaw(t, method, path, token, nil)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	return status, decoded
}

func (s *testServer) doRaw(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// registerAndLogin creates a normal user through the API and returns its token and id.
func (s *testServer) registerAndLogin(t *testing.T, username, email string) (string, int64) {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/register", "", map[string]any{
		"username": username, "email": email, "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = s.do(t, http.MethodPost, "/login", "", map[string]any{"email": email, "password": "pw123456"})
	require.Equal(t, http.StatusOK, status, body)
	user := body["user"].(map[string]any)
	return body["token"].(string), int64(user["id"].(float64))
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	_, err := s.auth.ProvisionAdmin(context.Background(), "root", "root@roamers.test", "admin-pass")
	require.NoError(t, err)
	token, _, err := s.auth.LoginUser(context.Background(), "root@roamers.test", "admin-pass")
	require.NoError(t, err)
	return token
}

func (s *testServer) createSpot(t *testing.T, adminToken string) int64 {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/tourist-spots", adminToken, map[string]any{
		"name": "Tirta Empul", "category": "temple", "location": "Tampaksiring",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return int64(body["id"].(float64))
}

func tomorrow() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
