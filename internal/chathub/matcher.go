package chathub

// Matcher is the FIFO waiting pool. Pairing policy is pure arrival order:
// the newest arrival takes the oldest live waiter.
type Matcher struct {
	queue []string
}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Enter removes connID from any previous position and pops waiters from the
// head until one passes isLive. It returns that partner, or, when the pool
// runs dry, appends connID and returns its 1-based position.
func (m *Matcher) Enter(connID string, isLive func(string) bool) (partnerID string, position int) {
	m.Leave(connID)

	for len(m.queue) > 0 {
		head := m.queue[0]
		m.queue[0] = ""
		m.queue = m.queue[1:]

		if head != connID && isLive(head) {
			return head, 0
		}
	}

	m.queue = append(m.queue, connID)
	return "", len(m.queue)
}

// Leave drops connID from the pool. Idempotent.
func (m *Matcher) Leave(connID string) bool {
	for i, id := range m.queue {
		if id == connID {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Position is the 1-based position of connID, or 0 when it is not waiting.
func (m *Matcher) Position(connID string) int {
	for i, id := range m.queue {
		if id == connID {
			return i + 1
		}
	}
	return 0
}

func (m *Matcher) Len() int {
	return len(m.queue)
}

// Waiting returns a copy of the pool in order.
func (m *Matcher) Waiting() []string {
	return append([]string(nil), m.queue...)
}
