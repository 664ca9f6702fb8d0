package notifier

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/sideshow/apns2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"roamers-service/internal/config"
	"roamers-service/internal/events"
	"roamers-service/internal/testutil"
)

type fakePusher struct {
	sent []*apns2.Notification
	err  error
}

func (f *fakePusher) Push(n *apns2.Notification) (*apns2.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, n)
	return &apns2.Response{StatusCode: http.StatusOK, ApnsID: "apns-1"}, nil
}

func joinedEvent(t *testing.T, tourID, userID int64) []byte {
	t.Helper()
	data, err := json.Marshal(events.TourJoinedEvent{EventType: events.SubjectTourJoined, TourID: tourID, UserID: userID})
	require.NoError(t, err)
	return data
}

func TestWorker_PushesToEveryDevice(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	require.NoError(t, store.DeviceTokens().Register(ctx, 7, "phone"))
	require.NoError(t, store.DeviceTokens().Register(ctx, 7, "tablet"))
	require.NoError(t, store.DeviceTokens().Register(ctx, 8, "someone-else"))

	pusher := &fakePusher{}
	w := NewWorker(pusher, store.DeviceTokens(), "app.roamers")

	require.NoError(t, w.HandleTourJoined(ctx, joinedEvent(t, 3, 7)))
	require.Len(t, pusher.sent, 2)
	require.Equal(t, "phone", pusher.sent[0].DeviceToken)
	require.Equal(t, "app.roamers", pusher.sent[0].Topic)

	raw, err := json.Marshal(pusher.sent[0].Payload)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"tour_id":3`)
}

func TestWorker_PushErrorsAreNotRetried(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	require.NoError(t, store.DeviceTokens().Register(ctx, 7, "phone"))

	w := NewWorker(&fakePusher{err: errors.New("apns unreachable")}, store.DeviceTokens(), "app.roamers")
	require.NoError(t, w.HandleTourJoined(ctx, joinedEvent(t, 3, 7)))
}

func TestWorker_MockModeAndMalformedEvents(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	require.NoError(t, store.DeviceTokens().Register(ctx, 7, "phone"))

	w := NewWorker(nil, store.DeviceTokens(), "")
	require.NoError(t, w.HandleTourJoined(ctx, joinedEvent(t, 1, 7)))
	require.NoError(t, w.HandleTourJoined(ctx, []byte("{not json")))
}

func TestNewAPNSClient_MockWhenUnconfigured(t *testing.T) {
	client, err := NewAPNSClient(config.APNSConfig{AuthKeyPath: "#disabled"})
	require.NoError(t, err)
	require.Nil(t, client)
}

func writeAuthKey(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "AuthKey_TEST.p8")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0o600))
	return path
}

func TestNewAPNSClient_TracedTransport(t *testing.T) {
	cfg := config.APNSConfig{AuthKeyPath: writeAuthKey(t), KeyID: "KEY123", TeamID: "TEAM123", Mode: "development"}

	client, err := NewAPNSClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	require.Equal(t, apns2.HostDevelopment, client.Host)
	require.IsType(t, &otelhttp.Transport{}, client.HTTPClient.Transport)

	cfg.Mode = "production"
	client, err = NewAPNSClient(cfg)
	require.NoError(t, err)
	require.Equal(t, apns2.HostProduction, client.Host)
}

func TestNewAPNSClient_MissingKeyFile(t *testing.T) {
	_, err := NewAPNSClient(config.APNSConfig{AuthKeyPath: filepath.Join(t.TempDir(), "missing.p8"), KeyID: "k", TeamID: "t"})
	require.Error(t, err)
}
