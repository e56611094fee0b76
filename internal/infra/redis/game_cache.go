package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"gameshow-quiz-service/internal/app"
	"gameshow-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GameCache caches game records in Redis and falls back to the wrapped
// repository on a miss. Records are stored as JSON under game:{id}.
// Redis failures degrade to a pass-through; they never fail a request.
// A non-positive ttl disables caching. Writes through this instance bump the
// id's generation so that a fill racing with them is not stored.
type GameCache struct {
	app.GameRepository

	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	genMu       sync.Mutex
	generations map[string]uint64
}

func NewGameCache(client *redis.Client, next app.GameRepository, ttl time.Duration, log *zap.Logger) *GameCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &GameCache{
		GameRepository: next,
		client:         client,
		ttl:            ttl,
		log:            log,
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
		generations:    make(map[string]uint64),
	}
}

func (c *GameCache) GetGame(ctx context.Context, id string) (domain.GameRecord, error) {
	if c.ttl <= 0 {
		return c.GameRepository.GetGame(ctx, id)
	}
	if game, ok := c.cached(ctx, id); ok {
		return game, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if game, ok := c.cached(ctx, id); ok {
			return game, nil
		}

		gen := c.generation(id)
		game, err := c.GameRepository.GetGame(ctx, id)
		if err != nil {
			return domain.GameRecord{}, err
		}
		c.store(ctx, id, gen, game)
		return game, nil
	})
	if err != nil {
		return domain.GameRecord{}, err
	}
	return result.(domain.GameRecord), nil
}

func (c *GameCache) SaveGame(ctx context.Context, game domain.GameRecord) error {
	if err := c.GameRepository.SaveGame(ctx, game); err != nil {
		return err
	}
	c.invalidate(ctx, game.ID)
	return nil
}

func (c *GameCache) DeleteGame(ctx context.Context, id string) error {
	err := c.GameRepository.DeleteGame(ctx, id)
	c.invalidate(ctx, id)
	return err
}

func (c *GameCache) cached(ctx context.Context, id string) (domain.GameRecord, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("read cached game", zap.String("gameId", id), zap.Error(err))
		}
		return domain.GameRecord{}, false
	}
	var game domain.GameRecord
	if err := json.Unmarshal(data, &game); err != nil {
		c.log.Warn("decode cached game", zap.String("gameId", id), zap.Error(err))
		return domain.GameRecord{}, false
	}
	return game, true
}

// store writes game unless a write to id happened since gen was read. The
// generation lock is held across the SET so invalidate cannot slip between
// the check and the write.
func (c *GameCache) store(ctx context.Context, id string, gen uint64, game domain.GameRecord) {
	data, err := json.Marshal(game)
	if err != nil {
		c.log.Warn("encode game for cache", zap.String("gameId", id), zap.Error(err))
		return
	}

	c.genMu.Lock()
	defer c.genMu.Unlock()
	if c.generations[id] != gen {
		return
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttlWithJitter()).Err(); err != nil {
		c.log.Warn("cache game", zap.String("gameId", id), zap.Error(err))
	}
}

func (c *GameCache) generation(id string) uint64 {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	return c.generations[id]
}

func (c *GameCache) invalidate(ctx context.Context, id string) {
	c.genMu.Lock()
	c.generations[id]++
	err := c.client.Del(ctx, c.key(id)).Err()
	c.genMu.Unlock()
	c.sf.Forget(id)
	if err != nil {
		c.log.Warn("invalidate cached game", zap.String("gameId", id), zap.Error(err))
	}
}

func (c *GameCache) key(id string) string {
	return "game:" + id
}

func (c *GameCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
