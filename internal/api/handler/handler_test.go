package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"videomatch/backend/internal/chathub"
	"videomatch/backend/internal/identity"
	"videomatch/backend/internal/models"
	"videomatch/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveProfile(ctx context.Context, id string, p models.Profile) (*models.User, error) {
	args := m.Called(ctx, id, p)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetProfile(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) PublishStats(ctx context.Context, s models.Stats) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockStorage) GetStats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*models.Stats), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ storage.Storage = (*MockStorage)(nil)

var allowed = []string{"http://localhost:5173"}

func setupRouter(t *testing.T) (*gin.Engine, *MockStorage, *identity.Service) {
	t.Helper()

	hub := chathub.NewManagerService(
		chathub.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		chathub.WithGraceInterval(10*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	store := new(MockStorage)
	ids := identity.NewService("test-secret", store)
	h := NewHandler(hub, ids, store, allowed)
	return NewRouter(h, allowed), store, ids
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth_EmptyHub(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["totalUsers"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestStats_EmptyHub(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/stats", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalUsers":0,"videoChatUsers":0,"browsingUsers":0,"activeMatches":0,"waitingQueue":0}`, w.Body.String())
}

func TestUsers_EmptyHubIsEmptyList(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/users", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetAnonID_IssuesParseableToken(t *testing.T) {
	r, _, ids := setupRouter(t)

	w := do(r, http.MethodGet, "/anonid", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token  string `json:"token"`
		AnonID string `json:"anon_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	got, err := ids.Parse(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.AnonID, got)
}

func TestGetProfile(t *testing.T) {
	r, store, _ := setupRouter(t)
	store.On("GetProfile", mock.Anything, "u1").Return(&models.User{ID: "u1", Name: "Ana", Age: 30}, nil)
	store.On("GetProfile", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	w := do(r, http.MethodGet, "/api/profile/u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "Ana", user.Name)

	w = do(r, http.MethodGet, "/api/profile/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutProfile(t *testing.T) {
	r, store, _ := setupRouter(t)
	want := models.Profile{Name: "Ana", Age: 30, Interests: []string{"film"}}
	store.On("SaveProfile", mock.Anything, "u1", want).Return(&models.User{ID: "u1", Name: "Ana", Age: 30}, nil)
	store.On("SaveProfile", mock.Anything, "u2", mock.Anything).
		Return(nil, storage.ErrInvalidProfile)

	w := do(r, http.MethodPut, "/api/profile/u1", `{"name":"Ana","age":30,"interests":["film"]}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPut, "/api/profile/u2", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/api/profile/u3", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	store.AssertExpectations(t)
}

func TestCORS(t *testing.T) {
	r, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/stats", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"event": event, "data": data}))
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestWebSocket_JoinMatchRelayAndDisconnect(t *testing.T) {
	r, _, _ := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)

	send(t, a, models.EventJoin, models.Profile{Name: "Ana", Age: 30, Gender: "Female"})
	waiting := read(t, a)
	assert.Equal(t, models.EventWaiting, waiting.Event)
	assert.JSONEq(t, `{"queuePosition":1}`, string(waiting.Data))

	send(t, b, models.EventJoin, models.Profile{Name: "Ben", Age: 31, Gender: "male"})

	var matchedA, matchedB models.MatchedPayload
	f := read(t, a)
	require.Equal(t, models.EventMatched, f.Event)
	require.NoError(t, json.Unmarshal(f.Data, &matchedA))
	f = read(t, b)
	require.Equal(t, models.EventMatched, f.Event)
	require.NoError(t, json.Unmarshal(f.Data, &matchedB))
	assert.Equal(t, "Ben", matchedA.Partner.Name)
	assert.False(t, matchedA.Initiator)
	assert.True(t, matchedB.Initiator)

	send(t, b, models.EventOffer, map[string]any{"offer": map[string]string{"type": "offer", "sdp": "v=0"}})
	f = read(t, a)
	require.Equal(t, models.EventOffer, f.Event)
	var offer models.SignalPayload
	require.NoError(t, json.Unmarshal(f.Data, &offer))
	assert.JSONEq(t, `{"type":"offer","sdp":"v=0"}`, string(offer.Offer))
	assert.NotEmpty(t, offer.From)

	w := do(r, http.MethodGet, "/api/users", "")
	var users []DirectoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "in-chat", users[0].Status)

	require.NoError(t, b.Close())
	f = read(t, a)
	assert.Equal(t, models.EventPartnerDisconnected, f.Event)

	// Re-queued after the grace interval with nobody left to match.
	f = read(t, a)
	assert.Equal(t, models.EventWaiting, f.Event)
}

func TestWebSocket_InvalidJoin(t *testing.T) {
	r, _, _ := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	a := dial(t, srv)

	send(t, a, models.EventJoin, map[string]any{"name": "NoAge"})

	f := read(t, a)
	assert.Equal(t, models.EventError, f.Event)
	assert.JSONEq(t, `{"message":"Invalid user data"}`, string(f.Data))
}

func TestWebSocket_FriendRequestWithToken(t *testing.T) {
	r, store, ids := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	store.On("GetProfile", mock.Anything, "u1").Return(&models.User{ID: "u1", Name: "Stored One", Age: 33}, nil)
	store.On("GetProfile", mock.Anything, "u2").Return(nil, gorm.ErrRecordNotFound)

	token, err := ids.Issue("u1")
	require.NoError(t, err)

	one := dial(t, srv)
	two := dial(t, srv)
	send(t, one, models.EventRegisterFriendSystem, map[string]string{"userId": "spoofed", "token": token})
	send(t, two, models.EventRegisterFriendSystem, map[string]string{"userId": "u2"})

	// Registration has no reply. An invalid join does, and it is handled
	// after two's registration.
	send(t, two, models.EventJoin, map[string]any{})
	require.Equal(t, models.EventError, read(t, two).Event)

	send(t, one, models.EventSendFriendRequest, map[string]any{"fromUserId": "u1", "toUserId": "u2", "toUserName": "Two", "toUserAge": 20})

	f := read(t, two)
	require.Equal(t, models.EventFriendRequestReceived, f.Event)
	var req models.FriendRequest
	require.NoError(t, json.Unmarshal(f.Data, &req))
	assert.Equal(t, "u1", req.FromUserID)
	assert.Equal(t, "Stored One", req.FromUserName)
	assert.Equal(t, 33, req.FromUserAge)
}

func TestWebSocket_RejectsUnknownOrigin(t *testing.T) {
	r, _, _ := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
