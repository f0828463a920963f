package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/shared"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each sheet as a JSON document.
//
// Keys are namespaced as "{prefix}:sheet:{id}" for documents, "{prefix}:sheets" for the sorted set of live ids
// and "{prefix}:seq" for the id counter.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// DialRedis connects to the server described by cfg and checks it with PING.
func DialRedis(ctx context.Context, cfg shared.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", shared.ErrServiceUnavailable, cfg.Addr, err)
	}

	return NewRedisStore(client, cfg.Prefix), nil
}

// NewRedisStore wraps an existing client. An empty prefix defaults to "charsheet".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "charsheet"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) sheetKey(id int) string {
	return fmt.Sprintf("%s:sheet:%d", r.prefix, id)
}

func (r *RedisStore) indexKey() string { return r.prefix + ":sheets" }

func (r *RedisStore) seqKey() string { return r.prefix + ":seq" }

func (r *RedisStore) Create(ctx context.Context, sheet *models.CharacterSheet) error {
	if err := stamp(sheet, time.Now().UTC(), true); err != nil {
		return err
	}

	id, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	sheet.ID = int(id)

	data, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("failed to encode character sheet: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sheetKey(sheet.ID), data, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(sheet.ID), Member: sheet.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert character sheet: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id int) (*models.CharacterSheet, error) {
	data, err := r.client.Get(ctx, r.sheetKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character sheet: %w", err)
	}

	var sheet models.CharacterSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("failed to decode character sheet %d: %w", id, err)
	}
	return &sheet, nil
}

func (r *RedisStore) Update(ctx context.Context, sheet *models.CharacterSheet) error {
	stored, err := r.Get(ctx, sheet.ID)
	if err != nil {
		return err
	}

	sheet.CreatedAt = stored.CreatedAt
	if err := stamp(sheet, time.Now().UTC(), false); err != nil {
		return err
	}

	data, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("failed to encode character sheet: %w", err)
	}

	ok, err := r.client.SetXX(ctx, r.sheetKey(sheet.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to update character sheet: %w", err)
	}
	if !ok {
		return notFound(sheet.ID)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id int) (bool, error) {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.sheetKey(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete character sheet: %w", err)
	}
	return del.Val() > 0, nil
}

func (r *RedisStore) List(ctx context.Context) ([]models.CharacterSheet, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query character sheets: %w", err)
	}

	sheets := make([]models.CharacterSheet, 0, len(ids))
	if len(ids) == 0 {
		return sheets, nil
	}

	keys := make([]string, len(ids))
	for i, raw := range ids {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt index entry %q: %w", raw, err)
		}
		keys[i] = r.sheetKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load character sheets: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue // deleted between ZRANGE and MGET
		}
		var sheet models.CharacterSheet
		if err := json.Unmarshal([]byte(s), &sheet); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", keys[i], err)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
