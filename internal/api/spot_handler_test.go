package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"roamers-service/internal/api"
)

func TestSpots_RoundTrip(t *testing.T) {
	srv := newTestServer(t, api.AppConfig{}, nil)
	admin := srv.adminToken(t)
	spotID := srv.createSpot(t, admin)

	status, body := srv.do(t, http.MethodGet, "/tourist-spots/"+itoa(spotID), "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Tirta Empul", body["name"])
	require.Equal(t, "temple", body["category"])

	status, _ = srv.do(t, http.MethodPost, "/tourist-spots", admin, map[string]any{
		"name": "Kuta Beach", "category": "beach", "location": "Badung",
	})
	require.Equal(t, http.StatusCreated, status)

	status, spots := srv.doList(t, http.MethodGet, "/tourist-spots?category=beach", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, spots, 1)
	require.Equal(t, "Kuta Beach", spots[0]["name"])

	status, spots = srv.doList(t, http.MethodGet, "/tourist-spots", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, spots, 2)

	status, body = srv.do(t, http.MethodGet, "/tourist-spots/404", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "tourist spot not found", body["error"])
}

func TestSpots_CreateRequiresFields(t *testing.T) {
	srv := newTestServer(t, api.AppConfig{}, nil)
	admin := srv.adminToken(t)

	status, body := srv.do(t, http.MethodPost, "/tourist-spots", admin, map[string]any{"name": "Nowhere"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid input", body["error"])
}

func TestRecommendedAndMostVisited(t *testing.T) {
	srv := newTestServer(t, api.AppConfig{}, nil)
	admin := srv.adminToken(t)
	spotID := srv.createSpot(t, admin)
	tourID := srv.createTour(t, admin, spotID)
	user, userID := srv.registerAndLogin(t, "putu", "putu@roamers.test")

	status, spots := srv.doList(t, http.MethodGet, "/recommended/"+itoa(userID), "")
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, spots)

	status, _ = srv.do(t, http.MethodPut, "/users/"+itoa(userID)+"/location", user, map[string]any{"location": "tampaksiring"})
	require.Equal(t, http.StatusOK, status)

	status, spots = srv.doList(t, http.MethodGet, "/recommended/"+itoa(userID), "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, spots, 1)

	status, body := srv.do(t, http.MethodGet, "/recommended/999", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "user not found", body["error"])

	status, spots = srv.doList(t, http.MethodGet, "/mostvisitedplaces", "")
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, spots)

	status, _ = srv.do(t, http.MethodPost, "/tours/"+itoa(tourID)+"/join", user, nil)
	require.Equal(t, http.StatusOK, status)

	status, spots = srv.doList(t, http.MethodGet, "/mostvisitedplaces", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, spots, 1)
	require.EqualValues(t, 1, spots[0]["booking_count"])
}

func TestImageUploadURL(t *testing.T) {
	t.Run("mounted with presigner", func(t *testing.T) {
		srv := newTestServer(t, api.AppConfig{}, fakePresigner{})
		admin := srv.adminToken(t)

		status, body := srv.do(t, http.MethodPost, "/tourist-spots/image-upload-url", admin, map[string]any{"contentType": "image/png"})
		require.Equal(t, http.StatusOK, status, body)

		key := body["object_key"].(string)
		require.True(t, strings.HasPrefix(key, "tourist-spots/"))
		require.True(t, strings.HasSuffix(key, ".png"))
		require.Equal(t, "http://s3.local/spots/"+key, body["image_url"])
		require.Contains(t, body["upload_url"], "X-Amz-Signature")

		status, _ = srv.do(t, http.MethodPost, "/tourist-spots/image-upload-url", admin, map[string]any{"contentType": "application/pdf"})
		require.Equal(t, http.StatusBadRequest, status)

		user, _ := srv.registerAndLogin(t, "putu", "putu@roamers.test")
		status, _ = srv.do(t, http.MethodPost, "/tourist-spots/image-upload-url", user, map[string]any{"contentType": "image/png"})
		require.Equal(t, http.StatusForbidden, status)
	})

	t.Run("absent without presigner", func(t *testing.T) {
		srv := newTestServer(t, api.AppConfig{}, nil)
		status, body := srv.do(t, http.MethodPost, "/tourist-spots/image-upload-url", srv.adminToken(t), map[string]any{"contentType": "image/png"})
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, "image uploads are not configured", body["error"])

		status, _ = srv.do(t, http.MethodPost, "/tourist-spots/image-upload-url", "", nil)
		require.Equal(t, http.StatusNotFound, status)
	})
}
