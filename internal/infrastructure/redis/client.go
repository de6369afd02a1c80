package redis

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/internal/config"
)

// NewClient connects the session cache. The URL carries the address and
// defaults; explicit password and DB settings override it. A failed
// ping aborts startup rather than surfacing later as 500s on login.
func NewClient(cfg config.RedisConfig, logger *zap.Logger) (*redislib.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, err := redislib.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redislib.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("connected to redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}
