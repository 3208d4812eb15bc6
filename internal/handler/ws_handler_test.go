package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub-backend/internal/config"
	"ideahub-backend/internal/container"
	"ideahub-backend/internal/domain"
	"ideahub-backend/pkg/logger"
)

const wsTestSecret = "ws-test-secret"

func newTestContainer(t *testing.T) *container.Container {
	t.Helper()

	log, err := logger.New("error")
	require.NoError(t, err)

	cfg := &config.Config{
		AllowedOrigins: []string{"*"},
		Environment:    "development",
		JWTSecret:      wsTestSecret,
	}

	c, err := container.New(cfg, log, nil, nil)
	require.NoError(t, err)
	return c
}

func signTestToken(t *testing.T, userID string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(wsTestSecret))
	require.NoError(t, err)
	return token
}

func dialWS(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

func TestServeDeliversReminders(t *testing.T) {
	c := newTestContainer(t)
	h := NewWSHandler(c)

	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	conn, _, err := dialWS(t, srv, signTestToken(t, "user-1"))
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens inside the handshake handler, but give the
	// goroutines a moment to come up before publishing
	require.Eventually(t, func() bool {
		return c.GetHub().ConnectionCount("user-1") == 1
	}, time.Second, 10*time.Millisecond)

	delivered := c.GetHub().Publish(domain.NewReminder("user-1", json.RawMessage(`{"idea_id":"42"}`)))
	assert.Equal(t, 1, delivered)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, domain.EventTypeReminder, frame.Type)
	assert.JSONEq(t, `{"idea_id":"42"}`, string(frame.Payload))
}

func TestServeRejectsInvalidToken(t *testing.T) {
	c := newTestContainer(t)
	h := NewWSHandler(c)

	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	conn, resp, err := dialWS(t, srv, "not-a-token")
	require.Error(t, err)
	assert.Nil(t, conn)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, c.GetHub().ConnectionCount("user-1"))
}

func TestServeRejectsMissingToken(t *testing.T) {
	c := newTestContainer(t)
	h := NewWSHandler(c)

	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	assert.Nil(t, conn)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServeAcceptsAuthorizationHeader(t *testing.T) {
	c := newTestContainer(t)
	h := NewWSHandler(c)

	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Authorization": []string{"Bearer " + signTestToken(t, "user-2")}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return c.GetHub().ConnectionCount("user-2") == 1
	}, time.Second, 10*time.Millisecond)
}

func TestServeDeregistersOnDisconnect(t *testing.T) {
	c := newTestContainer(t)
	h := NewWSHandler(c)

	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	conn, _, err := dialWS(t, srv, signTestToken(t, "user-1"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return c.GetHub().ConnectionCount("user-1") == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return c.GetHub().ConnectionCount("user-1") == 0
	}, 2*time.Second, 10*time.Millisecond)
}
