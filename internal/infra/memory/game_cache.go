package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"gameshow-quiz-service/internal/app"
	"gameshow-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// GameCache wraps a GameRepository and caches GetGame results with a TTL to
// avoid repeated DB hits. Writes go straight through and drop the entry.
// Every write bumps the id's generation; a fill started under an older
// generation is discarded.
type GameCache struct {
	app.GameRepository

	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu          sync.RWMutex
	cache       map[string]cachedGame
	generations map[string]uint64
}

type cachedGame struct {
	game      domain.GameRecord
	expiresAt time.Time
}

func NewGameCache(next app.GameRepository, ttl time.Duration) *GameCache {
	return &GameCache{
		GameRepository: next,
		ttl:            ttl,
		clock:          time.Now,
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:          make(map[string]cachedGame),
		generations:    make(map[string]uint64),
	}
}

func (c *GameCache) GetGame(ctx context.Context, id string) (domain.GameRecord, error) {
	if game, ok := c.lookup(id); ok {
		return game, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		if game, ok := c.lookup(id); ok {
			return game, nil
		}

		c.mu.RLock()
		gen := c.generations[id]
		c.mu.RUnlock()

		game, err := c.GameRepository.GetGame(ctx, id)
		if err != nil {
			return domain.GameRecord{}, err
		}

		c.mu.Lock()
		if c.generations[id] == gen {
			c.cache[id] = cachedGame{
				game:      cloneGame(game),
				expiresAt: c.clock().Add(c.ttlWithJitter()),
			}
		}
		c.mu.Unlock()
		return game, nil
	})
	if err != nil {
		return domain.GameRecord{}, err
	}
	return cloneGame(result.(domain.GameRecord)), nil
}

func (c *GameCache) SaveGame(ctx context.Context, game domain.GameRecord) error {
	err := c.GameRepository.SaveGame(ctx, game)
	c.invalidate(game.ID)
	return err
}

func (c *GameCache) DeleteGame(ctx context.Context, id string) error {
	err := c.GameRepository.DeleteGame(ctx, id)
	c.invalidate(id)
	return err
}

func (c *GameCache) lookup(id string) (domain.GameRecord, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[id]
	if !ok || !entry.expiresAt.After(now) {
		return domain.GameRecord{}, false
	}
	return cloneGame(entry.game), true
}

func (c *GameCache) invalidate(id string) {
	c.mu.Lock()
	delete(c.cache, id)
	c.generations[id]++
	c.mu.Unlock()
	c.sf.Forget(id)
}

func (c *GameCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
