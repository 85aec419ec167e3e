package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumora-app/lumora/internal/app"
	svcErr "github.com/lumora-app/lumora/internal/errors"
	"github.com/lumora-app/lumora/internal/service/engagement"
)

// EngagementHandler exposes like and pass actions over HTTP.
type EngagementHandler struct {
	appCtx *app.AppContext
	svc    *engagement.Service
}

func NewEngagementHandler(appCtx *app.AppContext) *EngagementHandler {
	return &EngagementHandler{
		appCtx: appCtx,
		svc:    engagement.NewService(appCtx),
	}
}

// Like handles POST /v1/likes.
//
// A failed like surfaces as an error status, distinct from a successful
// like with no match, so clients cannot confuse the two.
func (h *EngagementHandler) Like(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Like(c.Request.Context(), viewerID(c), req.ToUserID)
	if err != nil {
		status, msg := svcErr.Map(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, LikeResponse{
		IsMatch: result.IsMatch,
		IsBot:   result.IsBot,
		MatchID: result.MatchID,
	})
}

// Pass handles POST /v1/passes.
func (h *EngagementHandler) Pass(c *gin.Context) {
	var req PassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Pass(c.Request.Context(), viewerID(c), req.ToUserID); err != nil {
		status, msg := svcErr.Map(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.Status(http.StatusNoContent)
}
