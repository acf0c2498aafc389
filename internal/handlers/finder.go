package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/alimgiray/userfinder/internal/middleware"
	"github.com/alimgiray/userfinder/internal/models"
	"github.com/alimgiray/userfinder/internal/services"
	"github.com/gin-gonic/gin"
)

type FinderHandler struct {
	registry   *services.PanelRegistry
	renderWait time.Duration
}

// NewFinderHandler creates the page handler. renderWait bounds how long a
// request waits for a search and its cards before rendering what it has.
func NewFinderHandler(registry *services.PanelRegistry, renderWait time.Duration) *FinderHandler {
	return &FinderHandler{
		registry:   registry,
		renderWait: renderWait,
	}
}

// Index renders the viewer's panel. A q parameter prefills the search box
// without running a search.
func (h *FinderHandler) Index(c *gin.Context) {
	panel := h.registry.Get(middleware.ViewerID(c))
	if query, ok := c.GetQuery("q"); ok {
		panel.SetQuery(query)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.renderWait)
	defer cancel()

	h.render(c, http.StatusOK, panel, panel.CardViews(ctx))
}

// Search handles the search form. The search itself is detached from the
// request so a browser that gives up does not abort it.
func (h *FinderHandler) Search(c *gin.Context) {
	panel := h.registry.Get(middleware.ViewerID(c))
	query := c.PostForm("q")
	searchCtx := context.WithoutCancel(c.Request.Context())

	done := make(chan struct{})
	go func() {
		defer close(done)
		panel.Submit(searchCtx, query)
	}()

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.renderWait)
	defer cancel()

	select {
	case <-done:
	case <-ctx.Done():
	}

	h.render(c, http.StatusOK, panel, panel.CardViews(ctx))
}

// Clear resets the viewer's panel
func (h *FinderHandler) Clear(c *gin.Context) {
	h.registry.Get(middleware.ViewerID(c)).Clear()
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *FinderHandler) render(c *gin.Context, status int, panel *services.SearchPanel, cards []models.CardView) {
	state := panel.State()

	refresh := state.Loading
	for _, card := range cards {
		if card.Pending {
			refresh = true
		}
	}

	data := gin.H{
		"Title":   "GitHub User Finder",
		"State":   state,
		"Cards":   cards,
		"Refresh": refresh,
	}

	c.HTML(status, "index", data)
}
