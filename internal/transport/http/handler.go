package http

import (
	"net/http"

	"gameshow-quiz-service/internal/app"
	"gameshow-quiz-service/internal/domain"
	"gameshow-quiz-service/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BasePath is where the gameshow routes live in the game template API.
const BasePath = "/api/game/game-type/gameshow-quiz"

// Handler exposes the gameshow use cases over REST.
type Handler struct {
	service *app.GameshowService
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewHandler(service *app.GameshowService, m *metrics.Metrics, log *zap.Logger) *Handler {
	return &Handler{service: service, metrics: m, log: log}
}

// NewRouter assembles the gin engine with every route and middleware.
func NewRouter(service *app.GameshowService, m *metrics.Metrics, log *zap.Logger, jwtSecret string) *gin.Engine {
	h := NewHandler(service, m, log)
	ws := NewWSHandler(service, m, log)

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), Metrics(m))

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	g := router.Group(BasePath, Authenticate(jwtSecret))
	g.POST("", RequireCaller(), h.create)
	g.GET("", h.list)
	g.GET("/play/:id", h.playPublic)
	g.GET("/preview/:id", RequireCaller(), h.playPreview)
	g.GET("/ws/:id", ws.ServeWS)
	g.GET("/:id", h.detail)
	g.POST("/:id/evaluate", h.evaluate)
	g.PUT("/:id", RequireCaller(), h.update)
	g.DELETE("/:id", RequireCaller(), h.delete)
	return router
}

func (h *Handler) create(c *gin.Context) {
	var in domain.GameshowInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadBody(c, err)
		return
	}
	game, err := h.service.Create(c.Request.Context(), in, CallerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusCreated, "Gameshow quiz created", game)
}

func (h *Handler) list(c *gin.Context) {
	games, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "", games)
}

func (h *Handler) playPublic(c *gin.Context) {
	view, err := h.service.Play(c.Request.Context(), c.Param("id"), false, CallerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "", view)
}

func (h *Handler) playPreview(c *gin.Context) {
	view, err := h.service.Play(c.Request.Context(), c.Param("id"), true, CallerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "", view)
}

func (h *Handler) detail(c *gin.Context) {
	view, err := h.service.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "", view)
}

func (h *Handler) evaluate(c *gin.Context) {
	var submission domain.AnswerSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		respondBadBody(c, err)
		return
	}
	result, err := h.service.EvaluateAnswer(c.Request.Context(), c.Param("id"), submission)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.metrics.ObserveAnswer(result.IsCorrect, result.Score)
	respondOK(c, http.StatusOK, "", result)
}

func (h *Handler) update(c *gin.Context) {
	var in domain.GameshowInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadBody(c, err)
		return
	}
	game, err := h.service.Update(c.Request.Context(), c.Param("id"), in, CallerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Gameshow quiz updated", game)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), CallerID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Gameshow quiz deleted", nil)
}
