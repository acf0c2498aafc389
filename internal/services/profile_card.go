package services

import (
	"context"
	"sync"

	"github.com/alimgiray/userfinder/internal/models"
	"github.com/alimgiray/userfinder/pkg/logger"
)

// TopRepositoryLimit is how many repositories a card asks GitHub for
const TopRepositoryLimit = 3

// ProfileCard loads the details of one search result. The profile and the
// repository list are fetched concurrently as soon as the card is created.
type ProfileCard struct {
	user   models.UserSummary
	cancel context.CancelFunc
	done   chan struct{}

	mu             sync.RWMutex
	bio            *string
	repos          []models.Repository
	profileSettled bool
	reposSettled   bool
}

// NewProfileCard creates the card and launches its two fetches. They stop
// only when they resolve or when the card is closed.
func NewProfileCard(ctx context.Context, directory UserDirectory, user models.UserSummary) *ProfileCard {
	ctx, cancel := context.WithCancel(ctx)
	card := &ProfileCard{
		user:   user,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		card.loadProfile(ctx, directory)
	}()
	go func() {
		defer wg.Done()
		card.loadRepositories(ctx, directory)
	}()
	go func() {
		wg.Wait()
		close(card.done)
	}()

	return card
}

func (c *ProfileCard) loadProfile(ctx context.Context, directory UserDirectory) {
	profile, err := directory.GetUserProfile(ctx, c.user.Login)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.profileSettled = true
	if err != nil {
		logger.WithError(err).WithField("login", c.user.Login).Debug("profile fetch failed")
		return
	}
	if profile != nil {
		c.bio = profile.Bio
	}
}

func (c *ProfileCard) loadRepositories(ctx context.Context, directory UserDirectory) {
	repos, err := directory.ListTopRepositories(ctx, c.user.Login, TopRepositoryLimit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reposSettled = true
	if err != nil {
		// Anything that is not a repository list renders as no repositories
		logger.WithError(err).WithField("login", c.user.Login).Debug("repository fetch failed")
		c.repos = nil
		return
	}
	c.repos = repos
}

// User returns the summary the card was created for
func (c *ProfileCard) User() models.UserSummary {
	return c.user
}

// View returns a snapshot of what the card currently shows
func (c *ProfileCard) View() models.CardView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	repos := make([]models.Repository, len(c.repos))
	copy(repos, c.repos)

	return models.CardView{
		User:    c.user,
		Bio:     c.bio,
		Repos:   repos,
		Pending: !c.profileSettled || !c.reposSettled,
	}
}

// Wait blocks until both fetches have settled or ctx is done
func (c *ProfileCard) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels whatever the card still has in flight
func (c *ProfileCard) Close() {
	c.cancel()
}

func closeCards(cards []*ProfileCard) {
	for _, card := range cards {
		card.Close()
	}
}
