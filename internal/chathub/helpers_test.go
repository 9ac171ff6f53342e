package chathub

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"videomatch/backend/internal/models"

	"github.com/stretchr/testify/require"
)

// MockClient is a test double for the Client interface.
type MockClient struct {
	connID string
	send   chan models.Outbound
	closed atomic.Bool
}

func newMockClient(id string) *MockClient {
	return newMockClientWithBuffer(id, 32)
}

func newMockClientWithBuffer(id string, buffer int) *MockClient {
	return &MockClient{connID: id, send: make(chan models.Outbound, buffer)}
}

func (c *MockClient) GetConnID() string                       { return c.connID }
func (c *MockClient) GetSendChannel() chan<- models.Outbound { return c.send }
func (c *MockClient) Run()                                    {}

func (c *MockClient) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.send)
	}
}

// Drain returns everything queued so far without blocking.
func (c *MockClient) Drain() []models.Outbound {
	var out []models.Outbound
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

// fakeScheduler records delayed work so tests decide when it fires.
type fakeScheduler struct {
	delays []time.Duration
	tasks  []func()
}

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.tasks = append(s.tasks, fn)
}

func (s *fakeScheduler) fireAll() {
	tasks := s.tasks
	s.tasks = nil
	for _, fn := range tasks {
		fn()
	}
}

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHub(t *testing.T) (*ManagerService, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	m := NewManagerService(
		WithScheduler(sched),
		WithClock(func() time.Time { return testNow }),
		WithLogger(discardLogger()),
	)
	return m, sched
}

func connect(m *ManagerService, id string) *MockClient {
	c := newMockClient(id)
	m.register(c)
	return c
}

func emit(t *testing.T, m *ManagerService, connID, event string, payload any) {
	t.Helper()
	in := models.Inbound{ConnID: connID, Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		in.Data = data
	}
	m.dispatch(in)
}

func profile(name string) models.Profile {
	return models.Profile{Name: name, Age: 24, Gender: "Female", Interests: []string{"music"}, Country: "PT"}
}

func join(t *testing.T, m *ManagerService, connID string) {
	t.Helper()
	emit(t, m, connID, models.EventJoin, profile(connID))
}

func events(msgs []models.Outbound) []string {
	out := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, msg.Event)
	}
	return out
}

func only(t *testing.T, c *MockClient, event string) models.Outbound {
	t.Helper()
	msgs := c.Drain()
	require.Len(t, msgs, 1, "expected a single %s event for %s, got %v", event, c.connID, events(msgs))
	require.Equal(t, event, msgs[0].Event)
	return msgs[0]
}
