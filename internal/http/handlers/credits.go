package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/keywordiq-backend/internal/http/response"
	seomod "github.com/yungbote/keywordiq-backend/internal/modules/seo"
	"github.com/yungbote/keywordiq-backend/internal/platform/ctxutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type CreditsHandler struct {
	log *logger.Logger
	seo seomod.Usecases
}

func NewCreditsHandler(log *logger.Logger, seo seomod.Usecases) *CreditsHandler {
	return &CreditsHandler{log: log.With("handler", "CreditsHandler"), seo: seo}
}

// GET /api/credits
func (h *CreditsHandler) GetCredits(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	out, err := h.seo.Credits(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"points": out.Points, "history": out.History})
}

// POST /api/credits/purchase
func (h *CreditsHandler) Purchase(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		Receipt string `json:"receipt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.seo.PurchaseCredits(c.Request.Context(), rd.UserID, req.Receipt)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"points": out.Points, "history": out.History})
}
