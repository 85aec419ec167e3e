package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumora-app/lumora/internal/app"
	svcErr "github.com/lumora-app/lumora/internal/errors"
	"github.com/lumora-app/lumora/internal/service/discovery"
)

// DiscoveryHandler exposes the discovery feed over HTTP.
type DiscoveryHandler struct {
	appCtx *app.AppContext
	svc    *discovery.Service
}

func NewDiscoveryHandler(appCtx *app.AppContext) *DiscoveryHandler {
	return &DiscoveryHandler{
		appCtx: appCtx,
		svc:    discovery.NewService(appCtx),
	}
}

// Feed handles GET /v1/feed.
//
// The cursor is opaque; callers page until next_cursor comes back empty.
// A failed fetch is safe to retry with the same cursor.
func (h *DiscoveryHandler) Feed(c *gin.Context) {
	var req FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.svc.FetchPage(c.Request.Context(), viewerID(c), req.Cursor, req.PageSize, req.toFilters())
	if err != nil {
		status, msg := svcErr.Map(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, toFeedResponse(page))
}
