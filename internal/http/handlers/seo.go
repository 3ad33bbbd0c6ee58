package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	domainseo "github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/http/response"
	seomod "github.com/yungbote/keywordiq-backend/internal/modules/seo"
	"github.com/yungbote/keywordiq-backend/internal/platform/ctxutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

// ChannelRoutes maps each dashboard endpoint segment to its channel.
var ChannelRoutes = map[string]types.Channel{
	"youtube":        domainseo.ChannelYouTube,
	"news":           domainseo.ChannelNews,
	"places":         domainseo.ChannelMaps,
	"search_results": domainseo.ChannelGoogleSearch,
	"competitors":    domainseo.ChannelCompetitor,
	"online_forums":  domainseo.ChannelReddit,
}

type SEOHandler struct {
	log *logger.Logger
	seo seomod.Usecases
}

func NewSEOHandler(log *logger.Logger, seo seomod.Usecases) *SEOHandler {
	return &SEOHandler{log: log.With("handler", "SEOHandler"), seo: seo}
}

// POST /api/dashboard/seo_optimisation/create
func (h *SEOHandler) CreateProject(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		BusinessType   string   `json:"business_type"`
		TargetAudience string   `json:"target_audience"`
		Industry       string   `json:"industry"`
		Goals          []string `json:"goals"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := h.seo.CreateProject(c.Request.Context(), seomod.CreateProjectInput{
		UserID:         rd.UserID,
		BusinessType:   req.BusinessType,
		TargetAudience: req.TargetAudience,
		Industry:       req.Industry,
		Goals:          req.Goals,
		UserIP:         rd.ClientIP,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondStatus(c, http.StatusCreated, gin.H{"project_id": p.ID, "project": p})
}

// RunChannel serves POST /api/dashboard/seo_optimisation/<route> for one
// channel.
func (h *SEOHandler) RunChannel(channel types.Channel) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == uuid.Nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		var req struct {
			ProjectID string `json:"project_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_project_id", errors.New("project_id must be a uuid"))
			return
		}
		out, err := h.seo.RunChannel(c.Request.Context(), seomod.RunChannelInput{
			UserID:    rd.UserID,
			ProjectID: projectID,
			Channel:   channel,
		})
		if err != nil {
			response.RespondAPIError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{
			"channel":        out.Channel,
			"cached":         out.Cached,
			"suggestion":     out.Suggestion,
			"data":           out.Documents,
			"points_debited": out.PointsDebited,
		})
	}
}

// GET /api/dashboard/seo_optimisation/projects/:id
func (h *SEOHandler) GetProject(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", errors.New("id must be a uuid"))
		return
	}
	p, err := h.seo.GetProject(c.Request.Context(), rd.UserID, projectID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"project": p})
}

// GET /api/dashboard/seo_optimisation/projects
func (h *SEOHandler) ListProjects(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	projects, err := h.seo.ListProjects(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"projects": projects})
}
