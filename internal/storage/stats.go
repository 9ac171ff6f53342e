package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"videomatch/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// StatsKey is both the hash holding the latest counters and the channel
// every update is published on.
const StatsKey = "videomatch:stats"

var ErrNoStats = errors.New("no stats published yet")

// PublishStats overwrites the stats hash and announces the update on the
// stats channel.
func (s *Service) PublishStats(ctx context.Context, st models.Stats) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}

	_, err = s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, StatsKey,
			"browsingUsers", st.BrowsingUsers,
			"videoChatUsers", st.VideoChatUsers,
			"activeMatches", st.ActiveMatches,
			"waitingQueue", st.WaitingQueue,
			"pendingFriendRequests", st.PendingFriend,
			"timestamp", st.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		pipe.Publish(ctx, StatsKey, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish stats: %w", err)
	}
	return nil
}

// GetStats reads the last published counters.
func (s *Service) GetStats(ctx context.Context) (*models.Stats, error) {
	fields, err := s.Redis.HGetAll(ctx, StatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNoStats
	}

	st := &models.Stats{
		BrowsingUsers:  atoi(fields["browsingUsers"]),
		VideoChatUsers: atoi(fields["videoChatUsers"]),
		ActiveMatches:  atoi(fields["activeMatches"]),
		WaitingQueue:   atoi(fields["waitingQueue"]),
		PendingFriend:  atoi(fields["pendingFriendRequests"]),
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["timestamp"]); err == nil {
		st.Timestamp = ts
	}
	return st, nil
}

// SubscribeStats follows the stats channel. The caller closes the PubSub.
func (s *Service) SubscribeStats(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, StatsKey)
}

func atoi(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}
