package memory

import (
	"context"
	"sort"
	"sync"

	"gameshow-quiz-service/internal/domain"
)

// GameStore is an in-memory implementation of app.GameRepository and
// app.TemplateRepository, used for local runs and tests.
type GameStore struct {
	mu        sync.RWMutex
	games     map[string]domain.GameRecord
	templates map[string]domain.GameTemplate // by slug
}

func NewGameStore(templates ...domain.GameTemplate) *GameStore {
	s := &GameStore{
		games:     make(map[string]domain.GameRecord),
		templates: make(map[string]domain.GameTemplate, len(templates)),
	}
	for _, t := range templates {
		s.templates[t.Slug] = t
	}
	return s
}

// GameshowTemplate is the seed entry NewGameStore is usually given.
func GameshowTemplate() domain.GameTemplate {
	return domain.GameTemplate{ID: "tpl-gameshow-quiz", Slug: domain.GameshowTemplateSlug, Name: "Gameshow Quiz"}
}

func (s *GameStore) GetGame(_ context.Context, id string) (domain.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}
	return cloneGame(game), nil
}

func (s *GameStore) SaveGame(_ context.Context, game domain.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game.TemplateSlug == "" {
		game.TemplateSlug = s.slugForLocked(game.TemplateID)
	}
	s.games[game.ID] = cloneGame(game)
	return nil
}

func (s *GameStore) DeleteGame(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return domain.ErrGameNotFound
	}
	delete(s.games, id)
	return nil
}

func (s *GameStore) ListGames(_ context.Context, templateID string) ([]domain.GameRecord, error) {
	s.mu.RLock()
	games := make([]domain.GameRecord, 0, len(s.games))
	for _, g := range s.games {
		if g.TemplateID == templateID {
			games = append(games, cloneGame(g))
		}
	}
	s.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.After(games[j].CreatedAt)
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}

func (s *GameStore) TemplateBySlug(_ context.Context, slug string) (domain.GameTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[slug]
	if !ok {
		return domain.GameTemplate{}, domain.ErrTemplateMissing
	}
	return t, nil
}

func (s *GameStore) slugForLocked(templateID string) string {
	for _, t := range s.templates {
		if t.ID == templateID {
			return t.Slug
		}
	}
	return ""
}

// cloneGame copies the payload so callers never share the stored bytes.
func cloneGame(g domain.GameRecord) domain.GameRecord {
	if g.GameJSON != nil {
		g.GameJSON = append([]byte(nil), g.GameJSON...)
	}
	return g
}
