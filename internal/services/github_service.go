package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/alimgiray/userfinder/internal/models"
	"github.com/google/go-github/v57/github"
)

// UserDirectory is the GitHub capability the search panel and profile cards depend on
type UserDirectory interface {
	SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error)
	GetUserProfile(ctx context.Context, login string) (*models.UserProfile, error)
	ListTopRepositories(ctx context.Context, login string, limit int) ([]models.Repository, error)
}

// GitHub logins are 1-39 alphanumerics or single hyphens, not starting or ending with one
var loginPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`)

// IsValidLogin reports whether login can be a GitHub username
func IsValidLogin(login string) bool {
	return len(login) <= 39 && loginPattern.MatchString(login)
}

type GitHubService struct {
	client *github.Client
}

// NewGitHubService creates an unauthenticated GitHub client rooted at apiURL.
// An empty apiURL keeps go-github's default (https://api.github.com/).
func NewGitHubService(apiURL string, httpClient *http.Client) (*GitHubService, error) {
	client := github.NewClient(httpClient)

	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
		client.BaseURL = baseURL
	}

	return &GitHubService{
		client: client,
	}, nil
}

// SearchUsers runs GET /search/users?q=<query> and returns the first page of items
func (s *GitHubService) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	result, _, err := s.client.Search.Users(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	users := make([]models.UserSummary, 0, len(result.Users))
	for _, user := range result.Users {
		users = append(users, models.UserSummary{
			ID:        user.GetID(),
			Login:     user.GetLogin(),
			AvatarURL: user.GetAvatarURL(),
			HTMLURL:   user.GetHTMLURL(),
		})
	}

	return users, nil
}

// GetUserProfile runs GET /users/<login>
func (s *GitHubService) GetUserProfile(ctx context.Context, login string) (*models.UserProfile, error) {
	// go-github maps an empty login to the authenticated /user endpoint
	if !IsValidLogin(login) {
		return nil, fmt.Errorf("invalid login %q", login)
	}

	user, _, err := s.client.Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", login, err)
	}

	return &models.UserProfile{
		Bio: user.Bio,
	}, nil
}

// ListTopRepositories runs GET /users/<login>/repos?sort=stars&per_page=<limit>.
// The order is whatever GitHub returns. A body that is not a JSON array fails to
// decode and comes back as an error.
func (s *GitHubService) ListTopRepositories(ctx context.Context, login string, limit int) ([]models.Repository, error) {
	if !IsValidLogin(login) {
		return nil, fmt.Errorf("invalid login %q", login)
	}

	opt := &github.RepositoryListOptions{
		Sort:        "stars",
		ListOptions: github.ListOptions{PerPage: limit},
	}

	repos, _, err := s.client.Repositories.List(ctx, login, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", login, err)
	}

	result := make([]models.Repository, 0, len(repos))
	for _, repo := range repos {
		result = append(result, models.Repository{
			ID:      repo.GetID(),
			Name:    repo.GetName(),
			HTMLURL: repo.GetHTMLURL(),
		})
	}

	return result, nil
}
