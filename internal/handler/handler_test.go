package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farm-assist-go/internal/config"
	"farm-assist-go/internal/model"
	"farm-assist-go/internal/pipeline"
	"farm-assist-go/internal/repository"
	"farm-assist-go/internal/service"
	"farm-assist-go/pkg/database"
	"farm-assist-go/pkg/events"
	"farm-assist-go/pkg/google"
	"farm-assist-go/pkg/llm"
	"farm-assist-go/pkg/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLLM struct {
	answer string
	err    error
}

func (s *stubLLM) Chat(context.Context, []llm.Message, *llm.GenerationParams) (string, error) {
	return s.answer, s.err
}

type stubVerifier map[string]*google.Identity

func (v stubVerifier) Verify(_ context.Context, idToken string) (*google.Identity, error) {
	if id, ok := v[idToken]; ok {
		return id, nil
	}
	return nil, google.ErrInvalidIDToken
}

type stubWeather struct {
	data json.RawMessage
	err  error
}

func (s *stubWeather) Forecast(context.Context, string) (json.RawMessage, error) {
	return s.data, s.err
}

type testApp struct {
	router  *gin.Engine
	llm     *stubLLM
	weather *stubWeather
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db,
		&model.User{}, &model.ChatMessage{}, &model.SoilReading{},
		&model.WaterTip{}, &model.PaddyInfo{}, &model.FarmingTip{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	jwtManager := token.NewJWTManager("handler-secret", 1, 7)
	userRepo := repository.NewUserRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	statsRepo := repository.NewStatsRepository(rdb)

	verifier := stubVerifier{
		"farmer": {Subject: "g-farmer", Email: "farmer@example.com", Name: "Lakshmi"},
		"admin":  {Subject: "g-admin", Email: "admin@example.com", Name: "Admin"},
	}
	llmClient := &stubLLM{answer: "Keep 2-3 cm of water in the field."}
	weatherClient := &stubWeather{data: json.RawMessage(`{"current":{"temp_c":22,"condition":{"text":"Sunny"}},"forecast":{"forecastday":[{"day":{"daily_chance_of_rain":10}}]}}`)}

	contentService := service.NewContentService(repository.NewContentRepository(db), nil, nil)
	require.NoError(t, contentService.Seed(context.Background()))

	s := Services{
		JWTManager: jwtManager,
		User: service.NewUserService(userRepo, repository.NewTokenBlacklistRepository(rdb), verifier, jwtManager,
			config.AuthConfig{AdminEmails: []string{"admin@example.com"}}),
		Chat: service.NewChatService(llmClient, conversationRepo,
			events.NewInlinePublisher(pipeline.NewProcessor(statsRepo), nil),
			service.ChatServiceConfig{MaxQuestionLength: 200, ModelTimeout: time.Second}),
		Conversation: service.NewConversationService(conversationRepo),
		Weather:      service.NewWeatherService(repository.NewWeatherCacheRepository(rdb), weatherClient, 30*time.Minute),
		Soil:         service.NewSoilService(repository.NewSoilRepository(db)),
		Content:      contentService,
		Admin:        service.NewAdminService(statsRepo, userRepo),
	}
	r := gin.New()
	RegisterRoutes(r, s)
	return &testApp{router: r, llm: llmClient, weather: weatherClient}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (a *testApp) do(t *testing.T, method, path, accessToken string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (a *testApp) login(t *testing.T, idToken string) service.LoginResult {
	t.Helper()
	status, env := a.do(t, http.MethodPost, "/api/v1/auth/google", "", gin.H{"idToken": idToken})
	require.Equal(t, http.StatusOK, status, env.Message)
	var res service.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.AccessToken)
	return res
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

var errModelDown = errors.New("connection refused")
