package chathub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"videomatch/backend/internal/config"
	"videomatch/backend/internal/logger"
	"videomatch/backend/internal/models"
)

// ManagerService is the hub. One goroutine (Run) owns the registry, the
// waiting pool, the session table and the friend broker, and processes
// registrations, client events and delayed tasks strictly one at a time.
type ManagerService struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan models.Inbound

	clients  map[string]Client
	registry *Registry
	matcher  *Matcher
	sessions *SessionTable
	friends  *FriendBroker

	scheduler Scheduler
	grace     time.Duration
	now       func() time.Time

	tasks     chan func()
	snapshots chan chan models.Snapshot
	done      chan struct{}

	log *slog.Logger
}

type Option func(*ManagerService)

// WithGraceInterval sets how long a participant whose partner left waits
// before being re-queued.
func WithGraceInterval(d time.Duration) Option {
	return func(m *ManagerService) { m.grace = d }
}

func WithScheduler(s Scheduler) Option {
	return func(m *ManagerService) { m.scheduler = s }
}

func WithClock(now func() time.Time) Option {
	return func(m *ManagerService) { m.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *ManagerService) { m.log = l }
}

func NewManagerService(opts ...Option) *ManagerService {
	m := &ManagerService{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		IncomingCh:   make(chan models.Inbound, 64),
		clients:      make(map[string]Client),
		grace:        config.DefaultGraceInterval,
		now:          time.Now,
		tasks:        make(chan func(), 64),
		snapshots:    make(chan chan models.Snapshot),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.scheduler == nil {
		m.scheduler = loopScheduler{hub: m}
	}
	if m.log == nil {
		m.log = logger.With("service", "hub")
	}

	m.registry = NewRegistry(m.now)
	m.matcher = NewMatcher()
	m.sessions = NewSessionTable(m.now)
	m.friends = NewFriendBroker(m.now)
	return m
}

// Run is the hub loop. It returns when ctx is cancelled, closing every
// connection it still holds.
func (m *ManagerService) Run(ctx context.Context) {
	m.log.Info("hub started", "grace_interval", m.grace)
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return

		case c := <-m.RegisterCh:
			m.safely("register", func() { m.register(c) })

		case c := <-m.UnregisterCh:
			m.safely("unregister", func() { m.unregister(c) })

		case in := <-m.IncomingCh:
			m.safely(in.Event, func() { m.dispatch(in) })

		case fn := <-m.tasks:
			m.safely("scheduled task", fn)

		case reply := <-m.snapshots:
			reply <- m.snapshot()
		}
	}
}

// Register hands a new connection to the hub. It reports false once the
// hub has stopped.
func (m *ManagerService) Register(c Client) bool {
	select {
	case m.RegisterCh <- c:
		return true
	case <-m.done:
		return false
	}
}

func (m *ManagerService) Unregister(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.done:
	}
}

// Submit queues a client event for the hub loop.
func (m *ManagerService) Submit(in models.Inbound) bool {
	select {
	case <-m.done:
		return false
	default:
	}
	select {
	case m.IncomingCh <- in:
		return true
	case <-m.done:
		return false
	}
}

// Snapshot asks the hub loop for a consistent copy of its counters and
// participant directory.
func (m *ManagerService) Snapshot(ctx context.Context) (models.Snapshot, error) {
	reply := make(chan models.Snapshot, 1)
	select {
	case m.snapshots <- reply:
	case <-ctx.Done():
		return models.Snapshot{}, ctx.Err()
	case <-m.done:
		return models.Snapshot{}, ErrHubStopped
	}

	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return models.Snapshot{}, ctx.Err()
	}
}

func (m *ManagerService) post(fn func()) {
	select {
	case m.tasks <- fn:
	case <-m.done:
	}
}

// safely keeps one bad event from taking the shared hub down.
func (m *ManagerService) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("recovered from panic in hub handler",
				"event", what, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (m *ManagerService) register(c Client) {
	id := c.GetConnID()
	if old, ok := m.clients[id]; ok && old != c {
		m.log.Warn("connection id reused, closing previous client", "conn", id)
		old.Close()
	}
	m.clients[id] = c
	m.log.Debug("connection registered", "conn", id, "connections", len(m.clients))
}

func (m *ManagerService) unregister(c Client) {
	id := c.GetConnID()
	if cur, ok := m.clients[id]; !ok || cur != c {
		return
	}
	delete(m.clients, id)
	c.Close()

	m.onDisconnect(id)
	m.log.Info("connection closed", "conn", id, "connections", len(m.clients))
}

func (m *ManagerService) shutdown() {
	for id, c := range m.clients {
		delete(m.clients, id)
		c.Close()
	}
	m.log.Info("hub stopped")
}

func (m *ManagerService) dispatch(in models.Inbound) {
	var err error

	switch in.Event {
	case models.EventRegisterPresence:
		err = m.registerPresence(in.ConnID, in.Data)
	case models.EventJoin:
		err = m.join(in.ConnID, in.Data)
	case models.EventOffer, models.EventAnswer, models.EventICECandidate, models.EventChatMessage:
		err = m.relay(in.ConnID, in.Event, in.Data)
	case models.EventStop:
		m.onStop(in.ConnID)
	case models.EventRegisterFriendSystem:
		err = m.bindIdentity(in)
	case models.EventSendFriendRequest:
		err = m.sendFriendRequest(in.ConnID, in.Data)
	case models.EventAcceptFriendRequest:
		err = m.acceptFriendRequest(in.ConnID, in.Data)
	case models.EventCancelFriendRequest:
		err = m.cancelFriendRequest(in.ConnID, in.Data)
	default:
		m.log.Debug("unknown event dropped", "conn", in.ConnID, "event", in.Event)
		return
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidInput) && in.Event == models.EventJoin:
		m.send(in.ConnID, models.EventError, models.ErrorPayload{Message: "Invalid user data"})
	default:
		m.log.Debug("event absorbed", "conn", in.ConnID, "event", in.Event, "err", err)
	}
}

func (m *ManagerService) registerPresence(connID string, data json.RawMessage) error {
	var p models.Profile
	if err := decode(data, &p); err != nil {
		return err
	}
	m.registry.RegisterBrowsing(connID, p)
	m.log.Info("participant browsing", "conn", connID, "name", p.Name)
	return nil
}

func (m *ManagerService) join(connID string, data json.RawMessage) error {
	var p models.Profile
	if err := decode(data, &p); err != nil {
		return err
	}
	participant, err := m.registry.RegisterSession(connID, p)
	if err != nil {
		return err
	}
	m.log.Info("participant joined matchmaking",
		"conn", connID, "name", participant.Profile.Name, "gender", participant.Profile.Gender)

	m.enterMatchmaking(connID)
	return nil
}

// enterMatchmaking pairs connID with the oldest live waiter, or parks it.
// The newcomer is the offer initiator.
func (m *ManagerService) enterMatchmaking(connID string) {
	if !m.registry.InSession(connID) {
		return
	}
	m.sessions.Destroy(connID)

	partnerID, position := m.matcher.Enter(connID, m.isWaitingLive)
	if partnerID == "" {
		m.send(connID, models.EventWaiting, models.WaitingPayload{QueuePosition: position})
		return
	}
	m.pair(connID, partnerID)
}

func (m *ManagerService) isWaitingLive(connID string) bool {
	_, live := m.clients[connID]
	return live && m.registry.InSession(connID)
}

func (m *ManagerService) pair(initiator, answerer string) {
	first, second, err := m.sessions.Create(initiator, answerer)
	if err != nil {
		m.log.Error("failed to create session", "initiator", initiator, "answerer", answerer, "err", err)
		return
	}
	a, errA := m.registry.Get(initiator)
	b, errB := m.registry.Get(answerer)
	if errA != nil || errB != nil {
		m.sessions.Destroy(initiator)
		return
	}

	m.send(initiator, models.EventMatched, models.MatchedPayload{Partner: partnerInfo(b.Profile), Initiator: first.Initiator})
	m.send(answerer, models.EventMatched, models.MatchedPayload{Partner: partnerInfo(a.Profile), Initiator: second.Initiator})
	m.log.Info("matched", "initiator", initiator, "answerer", answerer,
		"initiator_name", a.Profile.Name, "answerer_name", b.Profile.Name)
}

func partnerInfo(p models.Profile) models.PartnerInfo {
	return models.PartnerInfo{
		Name:      p.Name,
		Age:       p.Age,
		Gender:    p.Gender,
		Country:   p.Country,
		Interests: p.Interests,
	}
}

// send queues an event for connID without blocking. It reports whether the
// event was queued.
func (m *ManagerService) send(connID, event string, data any) bool {
	c, ok := m.clients[connID]
	if !ok {
		return false
	}
	select {
	case c.GetSendChannel() <- models.Outbound{Event: event, Data: data}:
		return true
	default:
		m.log.Warn("send buffer full, event dropped", "conn", connID, "event", event)
		return false
	}
}

func (m *ManagerService) snapshot() models.Snapshot {
	browsing, inSession := m.registry.Counts()
	return models.Snapshot{
		Stats: models.Stats{
			BrowsingUsers:  browsing,
			VideoChatUsers: inSession,
			ActiveMatches:  m.sessions.Count(),
			WaitingQueue:   m.matcher.Len(),
			PendingFriend:  m.friends.Pending(),
			Timestamp:      m.now(),
		},
		Participants: m.registry.Snapshot(),
	}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidInput)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
