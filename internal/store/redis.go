package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps each (tenant, table) pair as a Redis list of JSON-encoded
// rows. List order is insertion order, which matches what the resolver and
// duplicate guard expect.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: rdb}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(tenant, table string) string {
	return "sheet:" + tenant + ":" + table
}

func (s *RedisStore) ReadTable(ctx context.Context, tenant, table string) ([][]string, error) {
	raw, err := s.client.LRange(ctx, redisKey(tenant, table), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s/%s: %w", tenant, table, err)
	}

	rows := make([][]string, 0, len(raw))
	for _, item := range raw {
		var cells []string
		if err := json.Unmarshal([]byte(item), &cells); err != nil {
			return nil, fmt.Errorf("failed to decode row cells: %w", err)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (s *RedisStore) AppendRow(ctx context.Context, tenant, table string, row []string) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row cells: %w", err)
	}
	if err := s.client.RPush(ctx, redisKey(tenant, table), string(raw)).Err(); err != nil {
		return fmt.Errorf("failed to append row to %s/%s: %w", tenant, table, err)
	}
	return nil
}

func (s *RedisStore) UpdateCell(ctx context.Context, tenant, table string, rowIdx, colIdx int, value string) error {
	key := redisKey(tenant, table)

	item, err := s.client.LIndex(ctx, key, int64(rowIdx)).Result()
	if err == redis.Nil {
		return ErrRowOutOfRange
	}
	if err != nil {
		return fmt.Errorf("failed to read row from %s/%s: %w", tenant, table, err)
	}

	var cells []string
	if err := json.Unmarshal([]byte(item), &cells); err != nil {
		return fmt.Errorf("failed to decode row cells: %w", err)
	}
	if colIdx < 0 || colIdx >= len(cells) {
		return ErrCellOutOfRange
	}
	cells[colIdx] = value

	raw, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("failed to encode row cells: %w", err)
	}
	if err := s.client.LSet(ctx, key, int64(rowIdx), string(raw)).Err(); err != nil {
		return fmt.Errorf("failed to update cell in %s/%s: %w", tenant, table, err)
	}
	return nil
}
