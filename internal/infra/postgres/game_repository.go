package postgres

import (
	"context"
	"errors"
	"fmt"

	"gameshow-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const selectGame = `
SELECT g.id, g.name, g.description, g.thumbnail_image, g.creator_id, g.is_published,
       g.game_template_id, t.slug, g.game_json, g.created_at, g.updated_at
FROM games g
JOIN game_templates t ON t.id = g.game_template_id`

// GameRepository stores game records in Postgres; game_json is a JSONB column.
type GameRepository struct {
	pool *pgxpool.Pool
}

func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

func (r *GameRepository) GetGame(ctx context.Context, id string) (domain.GameRecord, error) {
	row := r.pool.QueryRow(ctx, selectGame+` WHERE g.id = $1`, id)
	game, err := scanGame(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.GameRecord{}, fmt.Errorf("load game: %w", err)
	}
	return game, nil
}

func (r *GameRepository) SaveGame(ctx context.Context, game domain.GameRecord) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO games (id, name, description, thumbnail_image, game_template_id, creator_id,
                   is_published, game_json, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    thumbnail_image = EXCLUDED.thumbnail_image,
    is_published = EXCLUDED.is_published,
    game_json = EXCLUDED.game_json,
    updated_at = EXCLUDED.updated_at`,
		game.ID, game.Name, game.Description, game.ThumbnailImage, game.TemplateID, game.CreatorID,
		game.IsPublished, string(game.GameJSON), game.CreatedAt, game.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func (r *GameRepository) DeleteGame(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (r *GameRepository) ListGames(ctx context.Context, templateID string) ([]domain.GameRecord, error) {
	rows, err := r.pool.Query(ctx, selectGame+` WHERE g.game_template_id = $1 ORDER BY g.created_at DESC, g.id`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []domain.GameRecord
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (r *GameRepository) TemplateBySlug(ctx context.Context, slug string) (domain.GameTemplate, error) {
	var t domain.GameTemplate
	err := r.pool.QueryRow(ctx, `SELECT id, slug, name FROM game_templates WHERE slug = $1`, slug).
		Scan(&t.ID, &t.Slug, &t.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GameTemplate{}, domain.ErrTemplateMissing
	}
	if err != nil {
		return domain.GameTemplate{}, fmt.Errorf("load template: %w", err)
	}
	return t, nil
}

func scanGame(row pgx.Row) (domain.GameRecord, error) {
	var (
		game domain.GameRecord
		raw  []byte
	)
	err := row.Scan(&game.ID, &game.Name, &game.Description, &game.ThumbnailImage, &game.CreatorID,
		&game.IsPublished, &game.TemplateID, &game.TemplateSlug, &raw, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return domain.GameRecord{}, err
	}
	game.GameJSON = raw
	return game, nil
}
