package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gameshow-quiz-service/internal/app"
	"gameshow-quiz-service/internal/domain"
	"gameshow-quiz-service/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var errAlreadyAnswered = errors.New("question already answered")

// WSHandler runs a single-player play session over a websocket: the sanitized
// game is pushed on connect and every answer is evaluated as it arrives.
// Session state (answered questions, running total) lives only as long as
// the connection.
type WSHandler struct {
	service  *app.GameshowService
	metrics  *metrics.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameshowService, m *metrics.Metrics, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		metrics: m,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerResult struct {
	QuestionID string `json:"questionId"`
	domain.AnswerResult
	TotalScore int `json:"totalScore"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS authorizes the play request, then upgrades the connection.
// ?preview=true plays the creator's preview and needs a token.
func (h *WSHandler) ServeWS(c *gin.Context) {
	gameID := c.Param("id")
	preview := c.Query("preview") == "true"

	view, err := h.service.Play(c.Request.Context(), gameID, preview, CallerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(outboundMessage[domain.GameView]{Type: "game", Payload: view}); err != nil {
		return
	}

	answered := make(map[string]bool, len(view.Questions))
	total := 0
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		var out any
		switch inbound.Type {
		case "answer":
			var submission domain.AnswerSubmission
			if err := json.Unmarshal(inbound.Payload, &submission); err != nil {
				out = errorMessage("invalid answer payload")
				break
			}
			if answered[submission.QuestionID] {
				out = errorMessage(errAlreadyAnswered.Error())
				break
			}
			result, err := h.service.EvaluateAnswer(c.Request.Context(), gameID, submission)
			if err != nil {
				out = errorMessage(err.Error())
				break
			}
			answered[submission.QuestionID] = true
			total += result.Score
			h.metrics.ObserveAnswer(result.IsCorrect, result.Score)
			out = outboundMessage[answerResult]{Type: "answerResult", Payload: answerResult{
				QuestionID:   submission.QuestionID,
				AnswerResult: result,
				TotalScore:   total,
			}}
		default:
			out = errorMessage("unsupported message type")
		}

		if err := conn.WriteJSON(out); err != nil {
			h.log.Debug("ws write error", zap.String("gameId", gameID), zap.Error(err))
			return
		}
	}
}

func errorMessage(msg string) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: msg}}
}
