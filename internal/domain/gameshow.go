package domain

import (
	"encoding/json"
	"time"
)

// GameshowTemplateSlug identifies the gameshow type in the template registry.
const GameshowTemplateSlug = "gameshow-quiz"

const (
	DefaultTimeLimit = 30
	DefaultPoints    = 1000
)

// Option is a single answer choice. IsCorrect is the answer key and must never
// be serialized into a player-facing view.
type Option struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a timed multiple-choice question.
type Question struct {
	ID        string   `json:"id" validate:"required"`
	Text      string   `json:"text" validate:"required"`
	ImageURL  string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	TimeLimit float64  `json:"timeLimit" validate:"gte=5"`
	Points    float64  `json:"points" validate:"gte=0"`
	Options   []Option `json:"options" validate:"min=2,unique=ID,has_correct,dive"`
}

// UnmarshalJSON fills timeLimit and points with their defaults when the
// fields are absent; explicit values, including zero, are kept.
func (q *Question) UnmarshalJSON(data []byte) error {
	type plain Question
	decoded := plain{TimeLimit: DefaultTimeLimit, Points: DefaultPoints}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*q = Question(decoded)
	return nil
}

// GameshowDefinition is the creator-owned payload stored in GameRecord.GameJSON.
type GameshowDefinition struct {
	Questions          []Question `json:"questions" validate:"min=1,unique=ID,dive"`
	RandomizeQuestions bool       `json:"randomizeQuestions"`
}

// GameshowInput is the create/update request body.
type GameshowInput struct {
	Title       string             `json:"title" validate:"min=3,max=100"`
	Description string             `json:"description"`
	Thumbnail   string             `json:"thumbnail" validate:"omitempty,url"`
	GameData    GameshowDefinition `json:"gameData"`
}

// AnswerSubmission is a single answer from a player. A nil TimeTaken means the
// elapsed time is unknown.
type AnswerSubmission struct {
	QuestionID       string   `json:"questionId" validate:"required"`
	SelectedOptionID string   `json:"selectedOptionId" validate:"required"`
	TimeTaken        *float64 `json:"timeTaken,omitempty" validate:"omitempty,gte=0"`
}

// UnmarshalJSON rejects an explicit "timeTaken": null; only an absent field
// means the elapsed time is unknown.
func (s *AnswerSubmission) UnmarshalJSON(data []byte) error {
	var raw struct {
		TimeTaken json.RawMessage `json:"timeTaken"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if string(raw.TimeTaken) == "null" {
		return &ValidationError{Fields: []FieldError{{Field: "timeTaken", Rule: "number", Message: "must be a number"}}}
	}
	type plain AnswerSubmission
	return json.Unmarshal(data, (*plain)(s))
}

// AnswerResult is returned once an answer has been committed; it is the only
// place where the correct option is disclosed.
type AnswerResult struct {
	IsCorrect       bool   `json:"isCorrect"`
	CorrectOptionID string `json:"correctOptionId"`
	Score           int    `json:"score"`
	Message         string `json:"message"`
}

// PlayableOption is an Option without its answer key.
type PlayableOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PlayableQuestion is a Question as shown to players.
type PlayableQuestion struct {
	ID        string           `json:"id"`
	Text      string           `json:"text"`
	ImageURL  string           `json:"imageUrl,omitempty"`
	TimeLimit float64          `json:"timeLimit"`
	Points    float64          `json:"points"`
	Options   []PlayableOption `json:"options"`
}

// GameView is returned by the detail and play endpoints.
type GameView struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Thumbnail   string             `json:"thumbnail"`
	Questions   []PlayableQuestion `json:"questions"`
}

// GameTemplate is an entry of the generic game template registry.
type GameTemplate struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// GameRecord is the persisted container owned by the template system. The
// gameshow definition lives in GameJSON and is only decoded after the
// template slug has been checked.
type GameRecord struct {
	ID             string          `json:"id"`
	Name           string          `json:"title"`
	Description    string          `json:"description"`
	ThumbnailImage string          `json:"thumbnailImage"`
	CreatorID      string          `json:"creatorId"`
	IsPublished    bool            `json:"isPublished"`
	TemplateID     string          `json:"templateId"`
	TemplateSlug   string          `json:"templateSlug"`
	GameJSON       json.RawMessage `json:"gameJson"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// GameSummary is a list item; it never carries the payload.
type GameSummary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ThumbnailImage string    `json:"thumbnailImage"`
	CreatorID      string    `json:"creatorId"`
	IsPublished    bool      `json:"isPublished"`
	CreatedAt      time.Time `json:"createdAt"`
}
