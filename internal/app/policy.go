package app

import "gameshow-quiz-service/internal/domain"

// Operation names a request-level action checked by Authorize.
type Operation int

const (
	OpCreate Operation = iota
	OpReadDetail
	OpPlayPublic
	OpPlayPreview
	OpEvaluate
	OpUpdate
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpReadDetail:
		return "read-detail"
	case OpPlayPublic:
		return "play"
	case OpPlayPreview:
		return "preview"
	case OpEvaluate:
		return "evaluate"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Authorize decides whether callerID may perform op on game. An empty
// callerID is an unauthenticated caller. For OpCreate the game argument is
// ignored.
//
// Records of another template type are reported as not found so that ids
// belonging to other game types are never confirmed.
func Authorize(op Operation, game domain.GameRecord, callerID string) error {
	if op == OpCreate {
		if callerID == "" {
			return domain.ErrUnauthenticated
		}
		return nil
	}
	if game.TemplateSlug != domain.GameshowTemplateSlug {
		return domain.ErrGameNotFound
	}

	switch op {
	case OpReadDetail, OpPlayPublic:
		if !game.IsPublished {
			return domain.ErrNotPublished
		}
		return nil
	case OpPlayPreview, OpUpdate, OpDelete:
		if callerID == "" || callerID != game.CreatorID {
			return domain.ErrAccessDenied
		}
		return nil
	case OpEvaluate:
		return nil
	}
	return domain.ErrAccessDenied
}
