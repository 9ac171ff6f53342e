package models

import "encoding/json"

// Inbound event names.
const (
	EventRegisterPresence     = "register-presence"
	EventJoin                 = "join"
	EventOffer                = "offer"
	EventAnswer               = "answer"
	EventICECandidate         = "ice-candidate"
	EventChatMessage          = "chat-message"
	EventStop                 = "stop"
	EventRegisterFriendSystem = "register-friend-system"
	EventSendFriendRequest    = "send-friend-request"
	EventAcceptFriendRequest  = "accept-friend-request"
	EventCancelFriendRequest  = "cancel-friend-request"
)

// Outbound event names. offer, answer, ice-candidate and chat-message are
// shared with the inbound set.
const (
	EventWaiting                = "waiting"
	EventMatched                = "matched"
	EventPartnerDisconnected    = "partner-disconnected"
	EventFriendRequestReceived  = "friend-request-received"
	EventFriendRequestAccepted  = "friend-request-accepted"
	EventFriendRequestCancelled = "friend-request-cancelled"
	EventError                  = "error"
)

// Envelope is the JSON frame exchanged over the WebSocket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound is a decoded client frame tagged with the connection it arrived on.
type Inbound struct {
	ConnID string
	Event  string
	Data   json.RawMessage

	// Identity is resolved by the transport for register-friend-system,
	// outside of the hub loop.
	Identity *Identity
}

// Identity binds a stable user id to a connection, optionally carrying the
// user's stored profile.
type Identity struct {
	UserID string
	Stored *Profile
}

// Outbound is an event queued for delivery to one connection.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// WaitingPayload tells a participant it is parked in the pool.
type WaitingPayload struct {
	QueuePosition int `json:"queuePosition"`
}

// PartnerInfo is the subset of the partner's profile revealed on match.
type PartnerInfo struct {
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender,omitempty"`
	Country   string   `json:"country,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

type MatchedPayload struct {
	Partner   PartnerInfo `json:"partner"`
	Initiator bool        `json:"initiator"`
}

// SignalPayload carries an opaque transport-negotiation blob. Only the field
// matching the event is set by well-behaved clients; From is stamped by the
// server.
type SignalPayload struct {
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	From      string          `json:"from,omitempty"`
}

type ChatPayload struct {
	Message   json.RawMessage `json:"message"`
	From      string          `json:"from"`
	Timestamp int64           `json:"timestamp"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type FriendSystemPayload struct {
	UserID string `json:"userId"`
	Token  string `json:"token,omitempty"`
}

type SendFriendRequestPayload struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	ToUserName string `json:"toUserName"`
	ToUserAge  int    `json:"toUserAge"`
}

type FriendRequestRef struct {
	RequestID string `json:"requestId"`
}

type FriendRequestAcceptedPayload struct {
	RequestID string `json:"requestId"`
	RoomID    string `json:"roomId"`
}

type FriendRequestCancelledPayload struct {
	RequestID string `json:"requestId"`
	UserID    string `json:"userId"`
}
