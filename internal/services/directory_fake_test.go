package services

import (
	"context"
	"sync"

	"github.com/alimgiray/userfinder/internal/models"
)

type searchResult struct {
	users []models.UserSummary
	err   error
}

// fakeDirectory answers from canned data. A search whose query has a gate
// blocks until a result is sent on it.
type fakeDirectory struct {
	mu       sync.Mutex
	searches []string
	profiles map[string]*models.UserProfile
	repos    map[string][]models.Repository
	results  map[string]searchResult
	gates    map[string]chan searchResult
	started  chan string
	lookups  []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		profiles: make(map[string]*models.UserProfile),
		repos:    make(map[string][]models.Repository),
		results:  make(map[string]searchResult),
		gates:    make(map[string]chan searchResult),
		started:  make(chan string, 16),
	}
}

func (f *fakeDirectory) gate(query string) chan searchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan searchResult)
	f.gates[query] = ch
	return ch
}

func (f *fakeDirectory) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	gate, gated := f.gates[query]
	result := f.results[query]
	f.mu.Unlock()

	f.started <- query

	if gated {
		select {
		case result = <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return result.users, result.err
}

func (f *fakeDirectory) GetUserProfile(ctx context.Context, login string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, "profile:"+login)
	profile, ok := f.profiles[login]
	if !ok {
		return nil, errNotFound
	}
	return profile, nil
}

func (f *fakeDirectory) ListTopRepositories(ctx context.Context, login string, limit int) ([]models.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, "repos:"+login)
	repos, ok := f.repos[login]
	if !ok {
		return nil, errNotFound
	}
	if len(repos) > limit {
		repos = repos[:limit]
	}
	return repos, nil
}

func (f *fakeDirectory) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func (f *fakeDirectory) lookupsFor() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.lookups))
	copy(out, f.lookups)
	return out
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

const errNotFound = fakeError("Not Found")
