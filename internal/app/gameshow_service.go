package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gameshow-quiz-service/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameRepository abstracts where game records live (in-memory, Postgres, cached).
// Lookups of unknown ids return domain.ErrGameNotFound.
type GameRepository interface {
	GetGame(ctx context.Context, id string) (domain.GameRecord, error)
	// SaveGame inserts or fully replaces a record.
	SaveGame(ctx context.Context, game domain.GameRecord) error
	DeleteGame(ctx context.Context, id string) error
	// ListGames returns the records of a template, newest first.
	ListGames(ctx context.Context, templateID string) ([]domain.GameRecord, error)
}

// TemplateRepository resolves template registry entries.
// Unknown slugs return domain.ErrTemplateMissing.
type TemplateRepository interface {
	TemplateBySlug(ctx context.Context, slug string) (domain.GameTemplate, error)
}

// GameshowService contains the gameshow use cases. It holds no per-request
// state; concurrent updates to one game are last-write-wins.
type GameshowService struct {
	games     GameRepository
	templates TemplateRepository
	validator *Validator
	log       *zap.Logger
	now       func() time.Time
	newID     func() string
}

func NewGameshowService(games GameRepository, templates TemplateRepository, log *zap.Logger) *GameshowService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GameshowService{
		games:     games,
		templates: templates,
		validator: NewValidator(),
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// NewGameshowServiceWithClock is test-only for deterministic timestamps and ids.
func NewGameshowServiceWithClock(games GameRepository, templates TemplateRepository, now func() time.Time, newID func() string) *GameshowService {
	s := NewGameshowService(games, templates, nil)
	s.now = now
	s.newID = newID
	return s
}

// Create stores a new published gameshow owned by callerID.
func (s *GameshowService) Create(ctx context.Context, in domain.GameshowInput, callerID string) (domain.GameRecord, error) {
	if err := Authorize(OpCreate, domain.GameRecord{}, callerID); err != nil {
		return domain.GameRecord{}, err
	}
	if err := s.validator.Input(in); err != nil {
		return domain.GameRecord{}, err
	}
	template, err := s.templates.TemplateBySlug(ctx, domain.GameshowTemplateSlug)
	if err != nil {
		return domain.GameRecord{}, err
	}
	payload, err := json.Marshal(in.GameData)
	if err != nil {
		return domain.GameRecord{}, fmt.Errorf("encode game data: %w", err)
	}

	now := s.now()
	game := domain.GameRecord{
		ID:             s.newID(),
		Name:           in.Title,
		Description:    in.Description,
		ThumbnailImage: in.Thumbnail,
		CreatorID:      callerID,
		IsPublished:    true,
		TemplateID:     template.ID,
		TemplateSlug:   template.Slug,
		GameJSON:       payload,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.games.SaveGame(ctx, game); err != nil {
		return domain.GameRecord{}, err
	}
	s.log.Info("gameshow created", zap.String("gameId", game.ID), zap.String("creatorId", callerID))
	return game, nil
}

// GetDetail returns the sanitized view of a published game.
func (s *GameshowService) GetDetail(ctx context.Context, id string) (domain.GameView, error) {
	return s.view(ctx, id, OpReadDetail, "")
}

// Play returns the sanitized view for a player. Previews are restricted to the
// creator and ignore the publication state.
func (s *GameshowService) Play(ctx context.Context, id string, preview bool, callerID string) (domain.GameView, error) {
	op := OpPlayPublic
	if preview {
		op = OpPlayPreview
	}
	return s.view(ctx, id, op, callerID)
}

// EvaluateAnswer scores one submitted answer.
func (s *GameshowService) EvaluateAnswer(ctx context.Context, id string, submission domain.AnswerSubmission) (domain.AnswerResult, error) {
	if err := s.validator.Submission(submission); err != nil {
		return domain.AnswerResult{}, err
	}
	game, err := s.load(ctx, id, OpEvaluate, "")
	if err != nil {
		return domain.AnswerResult{}, err
	}
	def, err := s.decode(game)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	return Evaluate(def, submission)
}

// Update replaces the game's metadata and definition wholesale.
func (s *GameshowService) Update(ctx context.Context, id string, in domain.GameshowInput, callerID string) (domain.GameRecord, error) {
	game, err := s.load(ctx, id, OpUpdate, callerID)
	if err != nil {
		return domain.GameRecord{}, err
	}
	if err := s.validator.Input(in); err != nil {
		return domain.GameRecord{}, err
	}
	payload, err := json.Marshal(in.GameData)
	if err != nil {
		return domain.GameRecord{}, fmt.Errorf("encode game data: %w", err)
	}

	game.Name = in.Title
	game.Description = in.Description
	game.ThumbnailImage = in.Thumbnail
	game.GameJSON = payload
	game.UpdatedAt = s.now()
	if err := s.games.SaveGame(ctx, game); err != nil {
		return domain.GameRecord{}, err
	}
	s.log.Info("gameshow updated", zap.String("gameId", game.ID))
	return game, nil
}

// Delete removes a game owned by callerID.
func (s *GameshowService) Delete(ctx context.Context, id, callerID string) error {
	game, err := s.load(ctx, id, OpDelete, callerID)
	if err != nil {
		return err
	}
	if err := s.games.DeleteGame(ctx, game.ID); err != nil {
		return err
	}
	s.log.Info("gameshow deleted", zap.String("gameId", game.ID))
	return nil
}

// ListAll returns every gameshow, newest first, without payloads.
func (s *GameshowService) ListAll(ctx context.Context) ([]domain.GameSummary, error) {
	template, err := s.templates.TemplateBySlug(ctx, domain.GameshowTemplateSlug)
	if err != nil {
		return nil, err
	}
	games, err := s.games.ListGames(ctx, template.ID)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.GameSummary, 0, len(games))
	for _, g := range games {
		summaries = append(summaries, domain.GameSummary{
			ID:             g.ID,
			Title:          g.Name,
			Description:    g.Description,
			ThumbnailImage: g.ThumbnailImage,
			CreatorID:      g.CreatorID,
			IsPublished:    g.IsPublished,
			CreatedAt:      g.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *GameshowService) view(ctx context.Context, id string, op Operation, callerID string) (domain.GameView, error) {
	game, err := s.load(ctx, id, op, callerID)
	if err != nil {
		return domain.GameView{}, err
	}
	def, err := s.decode(game)
	if err != nil {
		return domain.GameView{}, err
	}
	return gameView(game, def), nil
}

func (s *GameshowService) load(ctx context.Context, id string, op Operation, callerID string) (domain.GameRecord, error) {
	game, err := s.games.GetGame(ctx, id)
	if err != nil {
		return domain.GameRecord{}, err
	}
	if err := Authorize(op, game, callerID); err != nil {
		if !errors.Is(err, domain.ErrGameNotFound) {
			s.log.Debug("gameshow access denied",
				zap.String("gameId", id),
				zap.Stringer("op", op),
				zap.Error(err))
		}
		return domain.GameRecord{}, err
	}
	return game, nil
}

// decode is only called once the template slug has been checked. A payload
// that cannot be decoded is reported as a missing game.
func (s *GameshowService) decode(game domain.GameRecord) (domain.GameshowDefinition, error) {
	var def domain.GameshowDefinition
	if err := json.Unmarshal(game.GameJSON, &def); err != nil {
		s.log.Error("stored gameshow payload is not decodable", zap.String("gameId", game.ID), zap.Error(err))
		return domain.GameshowDefinition{}, domain.ErrGameNotFound
	}
	return def, nil
}
