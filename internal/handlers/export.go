package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/alimgiray/userfinder/internal/middleware"
	"github.com/alimgiray/userfinder/internal/services"
	"github.com/alimgiray/userfinder/pkg/logger"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	registry      *services.PanelRegistry
	exportService *services.ExportService
	wait          time.Duration
}

func NewExportHandler(registry *services.PanelRegistry, exportService *services.ExportService, wait time.Duration) *ExportHandler {
	return &ExportHandler{
		registry:      registry,
		exportService: exportService,
		wait:          wait,
	}
}

// Workbook downloads the viewer's current results as a spreadsheet
func (h *ExportHandler) Workbook(c *gin.Context) {
	panel := h.registry.Get(middleware.ViewerID(c))

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.wait)
	defer cancel()
	views := panel.CardViews(ctx)

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="github-users.xlsx"`)
	c.Status(http.StatusOK)

	if err := h.exportService.WriteWorkbook(c.Writer, views); err != nil {
		logger.WithError(err).Error("failed to export workbook")
	}
}
