package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// snapshotHandler exposes the persistence boundary for operators: an
// on-demand snapshot in addition to the shutdown one.
type snapshotHandler struct {
	snapshotService portssvc.SnapshotSvcFacade
}

func newSnapshotHandler(ss portssvc.SnapshotSvcFacade) *snapshotHandler {
	return &snapshotHandler{snapshotService: ss}
}

// registerSnapshotRoutes registers the admin snapshot routes.
func registerSnapshotRoutes(rg *gin.RouterGroup, ss portssvc.SnapshotSvcFacade) {
	h := newSnapshotHandler(ss)

	admin := rg.Group("/admin")
	{
		admin.POST("/snapshot", h.takeSnapshot)
	}
}

func (h *snapshotHandler) takeSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	meta, err := h.snapshotService.Persist(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}
