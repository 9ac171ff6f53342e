package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"videomatch/backend/internal/config"
	"videomatch/backend/internal/logger"
	"videomatch/backend/internal/models"
	"videomatch/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [args]

Commands:
  stats              print the last published hub counters
  watch              follow hub counters as they are published
  profile <id>       print the stored profile for a stable id`

func main() {
	_ = godotenv.Load()
	cfg := config.New()
	logger.InitFromConfig(cfg)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "stats":
		err = printStats(ctx, newRedisStorage(cfg))
	case "watch":
		err = watchStats(ctx, newRedisStorage(cfg))
	case "profile":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin profile <id>")
			os.Exit(1)
		}
		err = printProfile(ctx, newDBStorage(cfg), os.Args[2])
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		logger.Error("admin command failed", "command", os.Args[1], "err", err)
		os.Exit(1)
	}
}

// No database needed for the stats commands.
func newRedisStorage(cfg *config.Config) *storage.Service {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return storage.NewStorageService(nil, rdb)
}

func newDBStorage(cfg *config.Config) *storage.Service {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	return storage.NewStorageService(db, nil)
}

func printStats(ctx context.Context, s storage.Storage) error {
	st, err := s.GetStats(ctx)
	if err != nil {
		return err
	}
	printCounters(*st)
	return nil
}

func watchStats(ctx context.Context, s *storage.Service) error {
	sub := s.SubscribeStats(ctx)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.Channel():
			if !ok {
				return nil
			}
			var st models.Stats
			if err := json.Unmarshal([]byte(msg.Payload), &st); err != nil {
				logger.Warn("undecodable stats update", "err", err)
				continue
			}
			printCounters(st)
		}
	}
}

func printCounters(st models.Stats) {
	fmt.Printf("%s  users=%d browsing=%d in-session=%d matches=%d waiting=%d pending-friend-requests=%d\n",
		st.Timestamp.Local().Format(time.DateTime),
		st.TotalUsers(), st.BrowsingUsers, st.VideoChatUsers,
		st.ActiveMatches, st.WaitingQueue, st.PendingFriend)
}

func printProfile(ctx context.Context, s storage.Storage, id string) error {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
