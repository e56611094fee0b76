package app

import "gameshow-quiz-service/internal/domain"

// Sanitize projects a definition into the player-safe question list. Answer
// keys are dropped unconditionally.
func Sanitize(def domain.GameshowDefinition) []domain.PlayableQuestion {
	questions := make([]domain.PlayableQuestion, 0, len(def.Questions))
	for _, q := range def.Questions {
		options := make([]domain.PlayableOption, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, domain.PlayableOption{ID: opt.ID, Text: opt.Text})
		}
		questions = append(questions, domain.PlayableQuestion{
			ID:        q.ID,
			Text:      q.Text,
			ImageURL:  q.ImageURL,
			TimeLimit: q.TimeLimit,
			Points:    q.Points,
			Options:   options,
		})
	}
	return questions
}

func gameView(game domain.GameRecord, def domain.GameshowDefinition) domain.GameView {
	return domain.GameView{
		ID:          game.ID,
		Title:       game.Name,
		Description: game.Description,
		Thumbnail:   game.ThumbnailImage,
		Questions:   Sanitize(def),
	}
}
