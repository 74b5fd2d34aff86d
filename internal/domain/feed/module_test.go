package feed

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"geeknews/internal/domain/feed/model"
	"geeknews/internal/pkg/config"
	"geeknews/internal/pkg/generator"
	"geeknews/internal/pkg/notify"
	"geeknews/internal/pkg/registry"
	"geeknews/pkg/kv"
	"geeknews/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "feed-module-test-secret-0123456789"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	hub    *notify.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.Feed.CommentMinLength = 3
	cfg.Feed.CommentMaxLength = 300
	cfg.Feed.CommentInterval = 15 * time.Second
	cfg.Feed.SeedOnStart = true

	hub := notify.NewHub(8)
	t.Cleanup(hub.Close)

	r := gin.New()
	err := (&FeedModule{}).Init(&registry.ModuleContext{
		Config:    cfg,
		Store:     kv.NewMemoryStore(),
		Router:    r,
		Events:    hub,
		Hub:       hub,
		Generator: generator.New(config.GeneratorConfig{}, nil),
	})
	require.NoError(t, err)

	return &testServer{t: t, router: r, hub: hub}
}

func (s *testServer) token(username, role string) string {
	tok, _, err := utils.GenerateToken(testSecret, time.Hour, username, role)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestFeedRoutes(t *testing.T) {
	t.Run("List seeded feed newest first", func(t *testing.T) {
		s := newTestServer(t)

		w, resp := s.do(http.MethodGet, "/api/v1/feed", "", "")
		require.Equal(t, http.StatusOK, w.Code)

		var items []model.ContentItem
		require.NoError(t, json.Unmarshal(resp.Data, &items))
		require.Len(t, items, 3)
		assert.Equal(t, "3", items[0].ID)

		w, resp = s.do(http.MethodGet, "/api/v1/feed?category=VIDEO", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(resp.Data, &items))
		require.Len(t, items, 1)
		assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", items[0].VideoURL)

		w, _ = s.do(http.MethodGet, "/api/v1/feed?category=PODCAST", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Detail renders news body", func(t *testing.T) {
		s := newTestServer(t)

		w, resp := s.do(http.MethodGet, "/api/v1/feed/1", "", "")
		require.Equal(t, http.StatusOK, w.Code)

		var detail struct {
			ID              string         `json:"id"`
			DescriptionHTML string         `json:"descriptionHtml"`
			Summary         *model.Summary `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &detail))
		assert.Equal(t, "1", detail.ID)
		assert.True(t, strings.HasPrefix(detail.DescriptionHTML, "<p>"))
		require.NotNil(t, detail.Summary)
		assert.Equal(t, 0, detail.Summary.CommentCount)

		w, _ = s.do(http.MethodGet, "/api/v1/feed/404", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Comment flow", func(t *testing.T) {
		s := newTestServer(t)
		bob := s.token("bob", "USER")

		w, _ := s.do(http.MethodPost, "/api/v1/feed/1/comments", "", `{"content":"hello there"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, resp := s.do(http.MethodPost, "/api/v1/feed/1/comments", bob, `{"content":"hello there"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		var comment model.Comment
		require.NoError(t, json.Unmarshal(resp.Data, &comment))
		assert.Equal(t, "bob", comment.Author)

		w, resp = s.do(http.MethodPost, "/api/v1/feed/1/comments", bob, `{"content":"too soon"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, model.ReasonRateLimited, resp.Message)

		w, resp = s.do(http.MethodPost, "/api/v1/feed/2/comments", bob, `{"content":"see www.x.com"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, model.ReasonLinks, resp.Message)

		w, _ = s.do(http.MethodPost, "/api/v1/feed/missing/comments", bob, `{"content":"hello there"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w, resp = s.do(http.MethodGet, "/api/v1/feed/1/comments?page=1&limit=10", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var page struct {
			List  []model.Comment `json:"list"`
			Total int64           `json:"total"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, comment.ID, page.List[0].ID)
	})

	t.Run("Reaction flow", func(t *testing.T) {
		s := newTestServer(t)
		bob := s.token("bob", "USER")

		w, _ := s.do(http.MethodPut, "/api/v1/feed/3/reactions", bob, `{"type":"LIKE"}`)
		require.Equal(t, http.StatusOK, w.Code)
		w, _ = s.do(http.MethodPut, "/api/v1/feed/3/reactions", bob, `{"type":"ANGRY"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w, resp := s.do(http.MethodGet, "/api/v1/feed/3/reactions", bob, "")
		require.Equal(t, http.StatusOK, w.Code)
		var state struct {
			Reactions    model.ReactionCounts `json:"reactions"`
			UserReaction *model.ReactionKind  `json:"userReaction"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &state))
		assert.Equal(t, 0, state.Reactions[model.ReactionLike])
		assert.Equal(t, 1, state.Reactions[model.ReactionAngry])
		require.NotNil(t, state.UserReaction)
		assert.Equal(t, model.ReactionAngry, *state.UserReaction)

		w, resp = s.do(http.MethodGet, "/api/v1/feed/3/reactions", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		state.UserReaction = nil
		require.NoError(t, json.Unmarshal(resp.Data, &state))
		assert.Nil(t, state.UserReaction)

		w, _ = s.do(http.MethodPut, "/api/v1/feed/3/reactions", bob, `{"type":"LOVE"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = s.do(http.MethodPut, "/api/v1/feed/nope/reactions", bob, `{"type":"LIKE"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Admin publishing", func(t *testing.T) {
		s := newTestServer(t)
		admin := s.token("Admin", "ADMIN")
		bob := s.token("bob", "USER")

		video := `{"title":"Trailer","description":"Watch","category":"VIDEO"}`
		w, _ := s.do(http.MethodPost, "/api/v1/admin/content", bob, video)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, _ = s.do(http.MethodPost, "/api/v1/admin/content", admin, video)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		news := `{"title":"Hello","description":"**bold** news","category":"NEWS"}`
		w, resp := s.do(http.MethodPost, "/api/v1/admin/content", admin, news)
		require.Equal(t, http.StatusCreated, w.Code)
		var item model.ContentItem
		require.NoError(t, json.Unmarshal(resp.Data, &item))
		assert.Equal(t, "Admin", item.Author)
		assert.Equal(t, []string{"Geek", "News"}, item.Tags)

		w, resp = s.do(http.MethodGet, "/api/v1/feed/"+item.ID, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var detail struct {
			DescriptionHTML string `json:"descriptionHtml"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &detail))
		assert.Contains(t, detail.DescriptionHTML, "<strong>bold</strong>")

		w, resp = s.do(http.MethodPost, "/api/v1/admin/draft", admin, `{"topic":"retro consoles"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(resp.Data), generator.MissingKeyArticle[:20])
	})
}
