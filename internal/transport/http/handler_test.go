package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gameshow-quiz-service/internal/app"
	"gameshow-quiz-service/internal/auth"
	"gameshow-quiz-service/internal/infra/memory"
	"gameshow-quiz-service/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func TestCreatePlayAndEvaluate(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, BasePath, sampleGameBody(), token(t, "creator"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	created := decode(t, rec)
	data := created["data"].(map[string]any)
	id := data["id"].(string)
	if data["title"] != "Math night" || data["gameJson"] == nil {
		t.Fatalf("unexpected create payload: %v", data)
	}

	rec = doJSON(t, router, http.MethodGet, BasePath+"/play/"+id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("play: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "isCorrect") {
		t.Fatalf("play response leaks answer key: %s", rec.Body)
	}

	rec = doJSON(t, router, http.MethodPost, BasePath+"/"+id+"/evaluate",
		map[string]any{"questionId": "q1", "selectedOptionId": "o2", "timeTaken": 15}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("evaluate: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	result := decode(t, rec)["data"].(map[string]any)
	if result["isCorrect"] != true || result["score"].(float64) != 750 || result["correctOptionId"] != "o2" {
		t.Fatalf("unexpected evaluation: %v", result)
	}
}

func TestDetailAppliesDefaults(t *testing.T) {
	router := newTestRouter()
	body := map[string]any{
		"title": "Defaults",
		"gameData": map[string]any{
			"questions": []any{
				map[string]any{
					"id":   "q1",
					"text": "Pick",
					"options": []any{
						map[string]any{"id": "a", "text": "A", "isCorrect": true},
						map[string]any{"id": "b", "text": "B", "isCorrect": false},
					},
				},
			},
		},
	}
	rec := doJSON(t, router, http.MethodPost, BasePath, body, token(t, "creator"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	id := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodGet, BasePath+"/"+id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	q := decode(t, rec)["data"].(map[string]any)["questions"].([]any)[0].(map[string]any)
	if q["timeLimit"].(float64) != 30 || q["points"].(float64) != 1000 {
		t.Fatalf("expected defaults, got %v", q)
	}
}

func TestErrorStatuses(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, BasePath, sampleGameBody(), token(t, "creator"))
	id := decode(t, rec)["data"].(map[string]any)["id"].(string)

	invalid := sampleGameBody()
	invalid["gameData"] = map[string]any{"questions": []any{}}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		token  string
		want   int
	}{
		{name: "create without token", method: http.MethodPost, path: BasePath, body: sampleGameBody(), want: http.StatusUnauthorized},
		{name: "create with bad token", method: http.MethodPost, path: BasePath, body: sampleGameBody(), token: "garbage", want: http.StatusUnauthorized},
		{name: "create invalid definition", method: http.MethodPost, path: BasePath, body: invalid, token: token(t, "creator"), want: http.StatusBadRequest},
		{name: "preview without token", method: http.MethodGet, path: BasePath + "/preview/" + id, want: http.StatusUnauthorized},
		{name: "preview by stranger", method: http.MethodGet, path: BasePath + "/preview/" + id, token: token(t, "stranger"), want: http.StatusForbidden},
		{name: "preview by creator", method: http.MethodGet, path: BasePath + "/preview/" + id, token: token(t, "creator"), want: http.StatusOK},
		{name: "detail missing", method: http.MethodGet, path: BasePath + "/missing", want: http.StatusNotFound},
		{name: "evaluate missing fields", method: http.MethodPost, path: BasePath + "/" + id + "/evaluate", body: map[string]any{"questionId": "q1"}, want: http.StatusBadRequest},
		{name: "evaluate negative time", method: http.MethodPost, path: BasePath + "/" + id + "/evaluate", body: map[string]any{"questionId": "q1", "selectedOptionId": "o1", "timeTaken": -2}, want: http.StatusBadRequest},
		{name: "evaluate null time", method: http.MethodPost, path: BasePath + "/" + id + "/evaluate", body: map[string]any{"questionId": "q1", "selectedOptionId": "o2", "timeTaken": nil}, want: http.StatusBadRequest},
		{name: "evaluate unknown option", method: http.MethodPost, path: BasePath + "/" + id + "/evaluate", body: map[string]any{"questionId": "q1", "selectedOptionId": "zz"}, want: http.StatusBadRequest},
		{name: "update by stranger", method: http.MethodPut, path: BasePath + "/" + id, body: sampleGameBody(), token: token(t, "stranger"), want: http.StatusForbidden},
		{name: "delete by stranger", method: http.MethodDelete, path: BasePath + "/" + id, token: token(t, "stranger"), want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, tt.method, tt.path, tt.body, tt.token)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body)
			}
			if tt.want >= 400 && decode(t, rec)["success"] != false {
				t.Fatalf("expected success=false: %s", rec.Body)
			}
		})
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	router := newTestRouter()
	invalid := sampleGameBody()
	invalid["title"] = "x"

	rec := doJSON(t, router, http.MethodPost, BasePath, invalid, token(t, "creator"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields, ok := decode(t, rec)["error"].([]any)
	if !ok || len(fields) == 0 {
		t.Fatalf("expected field errors, got %s", rec.Body)
	}
	if fields[0].(map[string]any)["field"] != "title" {
		t.Fatalf("expected title field error, got %v", fields[0])
	}
}

func TestNullTimeTakenIsFieldError(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, BasePath, sampleGameBody(), token(t, "creator"))
	id := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, BasePath+"/"+id+"/evaluate",
		map[string]any{"questionId": "q1", "selectedOptionId": "o2", "timeTaken": nil}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}
	fields, ok := decode(t, rec)["error"].([]any)
	if !ok || len(fields) != 1 || fields[0].(map[string]any)["field"] != "timeTaken" {
		t.Fatalf("expected timeTaken field error, got %s", rec.Body)
	}
}

func TestCreateAcceptsFractionalLimits(t *testing.T) {
	router := newTestRouter()
	body := sampleGameBody()
	question := body["gameData"].(map[string]any)["questions"].([]any)[0].(map[string]any)
	question["timeLimit"] = 7.5
	question["points"] = 12.5

	rec := doJSON(t, router, http.MethodPost, BasePath, body, token(t, "creator"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	id := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodGet, BasePath+"/"+id, nil, "")
	q := decode(t, rec)["data"].(map[string]any)["questions"].([]any)[0].(map[string]any)
	if q["timeLimit"].(float64) != 7.5 || q["points"].(float64) != 12.5 {
		t.Fatalf("expected fractional values kept, got %v", q)
	}
}

func TestUpdateListAndDelete(t *testing.T) {
	router := newTestRouter()
	creator := token(t, "creator")
	rec := doJSON(t, router, http.MethodPost, BasePath, sampleGameBody(), creator)
	id := decode(t, rec)["data"].(map[string]any)["id"].(string)

	body := sampleGameBody()
	body["title"] = "Renamed night"
	rec = doJSON(t, router, http.MethodPut, BasePath+"/"+id, body, creator)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodGet, BasePath, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	list := decode(t, rec)["data"].([]any)
	if len(list) != 1 || list[0].(map[string]any)["title"] != "Renamed night" {
		t.Fatalf("unexpected list: %v", list)
	}
	if _, leaked := list[0].(map[string]any)["gameJson"]; leaked {
		t.Fatalf("list must not carry payloads: %v", list[0])
	}

	rec = doJSON(t, router, http.MethodDelete, BasePath+"/"+id, nil, creator)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, router, http.MethodGet, BasePath+"/play/"+id, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, router, http.MethodGet, "/metrics", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "gameshow_http_requests_total") {
		t.Fatalf("expected request metrics, got %d", rec.Code)
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := memory.NewGameStore(memory.GameshowTemplate())
	service := app.NewGameshowService(store, store, zap.NewNop())
	return NewRouter(service, metrics.New(), zap.NewNop(), testSecret)
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.IssueToken(userID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func sampleGameBody() map[string]any {
	return map[string]any{
		"title":       "Math night",
		"description": "Warm-up",
		"thumbnail":   "https://example.com/thumb.png",
		"gameData": map[string]any{
			"randomizeQuestions": false,
			"questions": []any{
				map[string]any{
					"id":        "q1",
					"text":      "What is 2 + 2?",
					"timeLimit": 30,
					"points":    1000,
					"options": []any{
						map[string]any{"id": "o1", "text": "3", "isCorrect": false},
						map[string]any{"id": "o2", "text": "4", "isCorrect": true},
					},
				},
			},
		},
	}
}
