package config

import "time"

const (
	// WebSocket
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 64 * 1024

	// Matchmaking
	DefaultGraceInterval    = time.Second
	DefaultClientSendBuffer = 256
	DefaultStatsInterval    = 5 * time.Second

	// Stable identity tokens
	TokenTTL    = 72 * time.Hour
	TokenIssuer = "videomatch-service"

	// HTTP
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 10 * time.Second
	ShutdownTimeout = 5 * time.Second
	MaxHeaderBytes  = 1 << 20
)

// Presence defaults applied to fields a browsing participant leaves empty.
const (
	DefaultAge     = 25
	DefaultGender  = "other"
	DefaultCountry = "Unknown"
	DefaultFlag    = "🌍"
	DefaultMode    = "friendship"
)
