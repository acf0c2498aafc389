package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alimgiray/userfinder/internal/middleware"
	"github.com/alimgiray/userfinder/internal/models"
	"github.com/alimgiray/userfinder/internal/services"
	"github.com/alimgiray/userfinder/pkg/config"
	"github.com/alimgiray/userfinder/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// stubDirectory serves canned GitHub data; a login in slow blocks its
// searches until release is closed
type stubDirectory struct {
	mu       sync.Mutex
	users    map[string][]models.UserSummary
	profiles map[string]*models.UserProfile
	repos    map[string][]models.Repository
	searches int
	slow     map[string]bool
	release  chan struct{}
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		users:    make(map[string][]models.UserSummary),
		profiles: make(map[string]*models.UserProfile),
		repos:    make(map[string][]models.Repository),
		slow:     make(map[string]bool),
		release:  make(chan struct{}),
	}
}

func (s *stubDirectory) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	s.mu.Lock()
	s.searches++
	slow := s.slow[query]
	users, ok := s.users[query]
	s.mu.Unlock()

	if slow {
		<-s.release
	}
	if query == "broken" {
		return nil, errors.New("rate limited")
	}
	if !ok {
		return []models.UserSummary{}, nil
	}
	return users, nil
}

func (s *stubDirectory) GetUserProfile(ctx context.Context, login string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile, ok := s.profiles[login]; ok {
		return profile, nil
	}
	return nil, errors.New("not found")
}

func (s *stubDirectory) ListTopRepositories(ctx context.Context, login string, limit int) ([]models.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if repos, ok := s.repos[login]; ok {
		return repos, nil
	}
	return nil, errors.New("not found")
}

func (s *stubDirectory) searchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searches
}

func octocatDirectory() *stubDirectory {
	bio := "GitHub mascot"
	directory := newStubDirectory()
	directory.users["octocat"] = []models.UserSummary{
		{ID: 1, Login: "octocat", AvatarURL: "https://avatars.test/1", HTMLURL: "https://github.com/octocat"},
	}
	directory.profiles["octocat"] = &models.UserProfile{Bio: &bio}
	directory.repos["octocat"] = []models.Repository{
		{ID: 11, Name: "Spoon-Knife", HTMLURL: "https://github.com/octocat/Spoon-Knife"},
		{ID: 12, Name: "Hello-World", HTMLURL: "https://github.com/octocat/Hello-World"},
	}
	return directory
}

type testApp struct {
	router   *gin.Engine
	registry *services.PanelRegistry
	cookies  []*http.Cookie
}

func newTestApp(t *testing.T, directory services.UserDirectory, renderWait time.Duration) *testApp {
	t.Helper()
	config.Load()
	gin.SetMode(gin.TestMode)

	registry := services.NewPanelRegistry(time.Hour, func() *services.SearchPanel {
		return services.NewSearchPanel(directory, services.WithStaleSuppression(true))
	})
	t.Cleanup(registry.Close)

	templates, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(templates)
	router.Use(middleware.SessionMiddleware())

	finderHandler := NewFinderHandler(registry, renderWait)
	apiHandler := NewAPIHandler(registry, directory)
	exportHandler := NewExportHandler(registry, services.NewExportService(), renderWait)

	router.GET("/", finderHandler.Index)
	router.POST("/search", finderHandler.Search)
	router.POST("/clear", finderHandler.Clear)
	router.GET("/export.xlsx", exportHandler.Workbook)
	router.GET("/api/state", apiHandler.State)
	router.POST("/api/search", apiHandler.Search)
	router.POST("/api/clear", apiHandler.Clear)
	router.GET("/api/users/:login", apiHandler.UserCard)
	router.GET("/health", NewHealthHandler().HealthCheck)
	router.NoRoute(NewNotFoundHandler().NotFound)

	return &testApp{router: router, registry: registry}
}

// do sends a request as the same browser, keeping the session cookie
func (a *testApp) do(method, target string, body string, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	for _, cookie := range a.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		a.cookies = cookies
	}
	return w
}

func (a *testApp) postForm(target string, values url.Values) *httptest.ResponseRecorder {
	return a.do("POST", target, values.Encode(), "application/x-www-form-urlencoded")
}

// sessionViewer reads the viewer ID out of the stored session cookie
func (a *testApp) sessionViewer(t *testing.T) string {
	t.Helper()
	for _, cookie := range a.cookies {
		if cookie.Name != "session" {
			continue
		}
		value, err := url.QueryUnescape(cookie.Value)
		require.NoError(t, err)
		parts := strings.Split(value, ".")
		require.Len(t, parts, 2)

		data, err := base64.URLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		var session middleware.SessionData
		require.NoError(t, json.Unmarshal(data, &session))
		return session.ViewerID
	}
	t.Fatal("no session cookie")
	return ""
}
