package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gameshow-quiz-service/internal/domain"
	"gameshow-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestGameCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := &countingRepo{GameStore: seededStore(t)}
	cache := NewGameCache(newClient(mr), repo, time.Minute, nil)

	game, err := cache.GetGame(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected repository called once, got %d", repo.calls)
	}
	if !mr.Exists("game:game-1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("game:game-1"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	// Second call should hit cache, repository not incremented.
	cached, err := cache.GetGame(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("get cached game: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected cache hit, repository calls=%d", repo.calls)
	}
	if cached.Name != game.Name || cached.TemplateSlug != domain.GameshowTemplateSlug || string(cached.GameJSON) != string(game.GameJSON) {
		t.Fatalf("cached record differs: %+v vs %+v", cached, game)
	}
}

func TestGameCacheInvalidatesOnWrite(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	cache := NewGameCache(newClient(mr), seededStore(t), time.Minute, nil)

	game, err := cache.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	game.Name = "Renamed"
	if err := cache.SaveGame(ctx, game); err != nil {
		t.Fatalf("save: %v", err)
	}
	if mr.Exists("game:game-1") {
		t.Fatalf("expected key dropped after save")
	}

	if _, err := cache.GetGame(ctx, "game-1"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := cache.DeleteGame(ctx, "game-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("game:game-1") {
		t.Fatalf("expected key dropped after delete")
	}
	if _, err := cache.GetGame(ctx, "game-1"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGameCacheSurvivesRedisOutage(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	cache := NewGameCache(client, seededStore(t), time.Minute, nil)
	if _, err := cache.GetGame(context.Background(), "game-1"); err != nil {
		t.Fatalf("expected pass-through when redis is down, got %v", err)
	}
}

func TestGameCacheDropsFillRacingWithDelete(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	repo := newBlockingRepo(seededStore(t))
	cache := NewGameCache(newClient(mr), repo, time.Minute, nil)

	done := make(chan error, 1)
	go func() {
		_, err := cache.GetGame(ctx, "game-1")
		done <- err
	}()

	<-repo.fetched
	if err := cache.DeleteGame(ctx, "game-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	close(repo.release)
	if err := <-done; err != nil {
		t.Fatalf("in-flight get: %v", err)
	}

	if mr.Exists("game:game-1") {
		t.Fatalf("expected no cached entry for a deleted game")
	}
	if _, err := cache.GetGame(ctx, "game-1"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected deleted game to stay gone, got %v", err)
	}
}

func TestGameCacheZeroTTLDisablesCaching(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := &countingRepo{GameStore: seededStore(t)}
	cache := NewGameCache(newClient(mr), repo, 0, nil)

	for i := 0; i < 2; i++ {
		if _, err := cache.GetGame(context.Background(), "game-1"); err != nil {
			t.Fatalf("get game: %v", err)
		}
	}
	if mr.Exists("game:game-1") {
		t.Fatalf("expected nothing stored with a zero ttl")
	}
	if repo.calls != 2 {
		t.Fatalf("expected every read to reach the repository, got %d", repo.calls)
	}
}

// blockingRepo holds its first GetGame after reading the record until
// release is closed.
type blockingRepo struct {
	*memory.GameStore
	once    sync.Once
	fetched chan struct{}
	release chan struct{}
}

func newBlockingRepo(store *memory.GameStore) *blockingRepo {
	return &blockingRepo{GameStore: store, fetched: make(chan struct{}), release: make(chan struct{})}
}

func (r *blockingRepo) GetGame(ctx context.Context, id string) (domain.GameRecord, error) {
	game, err := r.GameStore.GetGame(ctx, id)
	r.once.Do(func() {
		close(r.fetched)
		<-r.release
	})
	return game, err
}

type countingRepo struct {
	*memory.GameStore
	calls int
}

func (r *countingRepo) GetGame(ctx context.Context, id string) (domain.GameRecord, error) {
	r.calls++
	return r.GameStore.GetGame(ctx, id)
}

func seededStore(t *testing.T) *memory.GameStore {
	t.Helper()
	store := memory.NewGameStore(memory.GameshowTemplate())
	err := store.SaveGame(context.Background(), domain.GameRecord{
		ID:          "game-1",
		Name:        "Quiz",
		CreatorID:   "creator",
		IsPublished: true,
		TemplateID:  memory.GameshowTemplate().ID,
		GameJSON:    []byte(`{"questions":[{"id":"q1"}]}`),
		CreatedAt:   time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
