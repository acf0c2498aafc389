package services

import (
	"context"
	"strings"
	"sync"

	"github.com/alimgiray/userfinder/internal/models"
	"github.com/alimgiray/userfinder/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Messages shown in the panel's status line
const (
	ErrMsgEmptyQuery   = "Please enter a username"
	ErrMsgNoUsers      = "No users found"
	ErrMsgSearchFailed = "Something went wrong"
)

// SearchPanel holds the query, status and results of one finder view
type SearchPanel struct {
	directory     UserDirectory
	suppressStale bool
	cardCtx       context.Context

	mu      sync.Mutex
	query   string
	users   []models.UserSummary
	loading bool
	errMsg  string
	seq     uint64
	cards   []*ProfileCard
}

type PanelOption func(*SearchPanel)

// WithStaleSuppression makes the panel drop search responses that resolve
// after a newer search was issued. Without it the last response to arrive wins.
func WithStaleSuppression(enabled bool) PanelOption {
	return func(p *SearchPanel) {
		p.suppressStale = enabled
	}
}

// WithCardContext sets the parent context of the cards the panel creates
func WithCardContext(ctx context.Context) PanelOption {
	return func(p *SearchPanel) {
		p.cardCtx = ctx
	}
}

func NewSearchPanel(directory UserDirectory, opts ...PanelOption) *SearchPanel {
	p := &SearchPanel{
		directory: directory,
		cardCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetQuery records the input value without searching
func (p *SearchPanel) SetQuery(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = query
}

// Submit searches for query and blocks until the response is applied or discarded
func (p *SearchPanel) Submit(ctx context.Context, query string) {
	p.mu.Lock()
	p.query = query
	term := strings.TrimSpace(query)
	if term == "" {
		p.errMsg = ErrMsgEmptyQuery
		p.mu.Unlock()
		return
	}

	p.seq++
	seq := p.seq
	p.loading = true
	p.errMsg = ""
	p.users = nil
	previous := p.cards
	p.cards = nil
	p.mu.Unlock()

	closeCards(previous)

	users, err := p.directory.SearchUsers(ctx, term)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.suppressStale && seq != p.seq {
		logger.WithFields(logrus.Fields{
			"query":  term,
			"seq":    seq,
			"latest": p.seq,
		}).Debug("discarding stale search response")
		return
	}

	p.loading = false
	closeCards(p.cards)
	p.cards = nil

	switch {
	case err != nil:
		logger.WithError(err).WithField("query", term).Debug("user search failed")
		p.users = nil
		p.errMsg = ErrMsgSearchFailed
	case len(users) == 0:
		p.users = nil
		p.errMsg = ErrMsgNoUsers
	default:
		p.users = users
		p.errMsg = ""
		p.cards = make([]*ProfileCard, 0, len(users))
		for _, user := range users {
			p.cards = append(p.cards, NewProfileCard(p.cardCtx, p.directory, user))
		}
	}
}

// Clear resets the query, results and status. An outstanding search is left running.
func (p *SearchPanel) Clear() {
	p.mu.Lock()
	p.query = ""
	p.users = nil
	p.errMsg = ""
	previous := p.cards
	p.cards = nil
	p.mu.Unlock()

	closeCards(previous)
}

// State returns a copy of the panel state
func (p *SearchPanel) State() models.SearchState {
	p.mu.Lock()
	defer p.mu.Unlock()

	users := make([]models.UserSummary, len(p.users))
	copy(users, p.users)

	return models.SearchState{
		Query:   p.query,
		Users:   users,
		Loading: p.loading,
		Error:   p.errMsg,
	}
}

// Cards returns the cards for the current users, in result order
func (p *SearchPanel) Cards() []*ProfileCard {
	p.mu.Lock()
	defer p.mu.Unlock()

	cards := make([]*ProfileCard, len(p.cards))
	copy(cards, p.cards)
	return cards
}

// CardViews waits up to ctx for the cards to settle and returns their snapshots
func (p *SearchPanel) CardViews(ctx context.Context) []models.CardView {
	cards := p.Cards()
	views := make([]models.CardView, 0, len(cards))
	for _, card := range cards {
		_ = card.Wait(ctx)
		views = append(views, card.View())
	}
	return views
}

// Close disposes the panel's cards
func (p *SearchPanel) Close() {
	p.mu.Lock()
	previous := p.cards
	p.cards = nil
	p.mu.Unlock()

	closeCards(previous)
}
