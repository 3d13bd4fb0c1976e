package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
	"github.com/yungbote/ibdtrack-backend/internal/platform/userlock"
)

type Clients struct {
	Redis  *goredis.Client
	Locker userlock.Locker
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, using in-process user locks")
		return Clients{Locker: userlock.NewLocal()}, nil
	}
	rdb, err := userlock.Dial(ctx, cfg.RedisAddr)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	locker, err := userlock.NewRedis(log, rdb, cfg.UserLockTTL)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis user lock: %w", err)
	}
	return Clients{Redis: rdb, Locker: locker}, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
