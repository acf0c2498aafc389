package handlers

import (
	"context"
	"net/http"

	"github.com/alimgiray/userfinder/internal/middleware"
	"github.com/alimgiray/userfinder/internal/models"
	"github.com/alimgiray/userfinder/internal/services"
	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	registry  *services.PanelRegistry
	directory services.UserDirectory
}

func NewAPIHandler(registry *services.PanelRegistry, directory services.UserDirectory) *APIHandler {
	return &APIHandler{
		registry:  registry,
		directory: directory,
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

type panelResponse struct {
	State models.SearchState `json:"state"`
	Cards []models.CardView  `json:"cards"`
}

// State returns the viewer's panel without waiting on pending cards
func (h *APIHandler) State(c *gin.Context) {
	panel := h.registry.Get(middleware.ViewerID(c))
	c.JSON(http.StatusOK, snapshot(panel))
}

// Search submits a search for the viewer and answers once it is resolved.
// Cards may still be loading; clients poll State for them.
func (h *APIHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	panel := h.registry.Get(middleware.ViewerID(c))
	panel.Submit(context.WithoutCancel(c.Request.Context()), req.Query)

	c.JSON(http.StatusOK, snapshot(panel))
}

// Clear resets the viewer's panel
func (h *APIHandler) Clear(c *gin.Context) {
	panel := h.registry.Get(middleware.ViewerID(c))
	panel.Clear()
	c.JSON(http.StatusOK, snapshot(panel))
}

// UserCard loads a single card for :login outside of any panel
func (h *APIHandler) UserCard(c *gin.Context) {
	login := c.Param("login")
	if !services.IsValidLogin(login) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login"})
		return
	}

	card := services.NewProfileCard(c.Request.Context(), h.directory, models.UserSummary{Login: login})
	defer card.Close()

	if err := card.Wait(c.Request.Context()); err != nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request cancelled"})
		return
	}

	c.JSON(http.StatusOK, card.View())
}

func snapshot(panel *services.SearchPanel) panelResponse {
	cards := panel.Cards()
	views := make([]models.CardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, card.View())
	}
	return panelResponse{
		State: panel.State(),
		Cards: views,
	}
}
