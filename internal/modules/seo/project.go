package seo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/platform/apierr"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
)

const (
	maxFieldLength = 100
	maxGoalsLength = 500
)

type CreateProjectInput struct {
	UserID         uuid.UUID
	BusinessType   string
	TargetAudience string
	Industry       string
	Goals          []string
	UserIP         string
}

func validateProject(in *CreateProjectInput) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"business_type", &in.BusinessType},
		{"target_audience", &in.TargetAudience},
		{"industry", &in.Industry},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return apierr.BadRequest("missing_"+f.name, fmt.Errorf("%s is required", f.name))
		}
		if len([]rune(*f.value)) > maxFieldLength {
			return apierr.BadRequest("invalid_"+f.name, fmt.Errorf("%s must be at most %d characters", f.name, maxFieldLength))
		}
	}
	goals := make([]string, 0, len(in.Goals))
	for _, g := range in.Goals {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}
	if len(goals) == 0 {
		return apierr.BadRequest("missing_goals", fmt.Errorf("goals are required"))
	}
	if len([]rune(strings.Join(goals, ", "))) > maxGoalsLength {
		return apierr.BadRequest("invalid_goals", fmt.Errorf("goals must be at most %d characters", maxGoalsLength))
	}
	in.Goals = goals
	return nil
}

// CreateProject validates the input, resolves the caller's country from
// their IP and persists the project. An unresolvable IP leaves the location
// empty.
func (u Usecases) CreateProject(ctx context.Context, in CreateProjectInput) (*types.Project, error) {
	if in.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if err := validateProject(&in); err != nil {
		return nil, err
	}
	goals, err := json.Marshal(in.Goals)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "encode_goals_failed", err)
	}
	p := &types.Project{
		UserID:         in.UserID,
		BusinessType:   in.BusinessType,
		TargetAudience: in.TargetAudience,
		Industry:       in.Industry,
		Goals:          datatypes.JSON(goals),
		UserIP:         strings.TrimSpace(in.UserIP),
	}
	if u.deps.Locale != nil && p.UserIP != "" {
		loc, err := u.deps.Locale.Resolve(ctx, p.UserIP)
		if err != nil {
			u.deps.Log.Warn("Locale lookup failed", "user_ip", p.UserIP, "error", err)
		}
		p.Country, p.CountryCode = loc.Country, loc.CountryCode
	}
	created, err := u.deps.Projects.Create(dbctx.Context{Ctx: ctx}, []*types.Project{p})
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "create_project_failed", err)
	}
	u.deps.Log.Info("Project created", "project_id", p.ID, "user_id", in.UserID, "country_code", p.CountryCode)
	return created[0], nil
}

func (u Usecases) loadProject(ctx context.Context, userID, projectID uuid.UUID) (*types.Project, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if projectID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_project_id", fmt.Errorf("missing project_id"))
	}
	p, err := u.deps.Projects.GetByIDForUser(dbctx.Context{Ctx: ctx}, projectID, userID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "load_project_failed", err)
	}
	if p == nil {
		return nil, apierr.New(http.StatusNotFound, "project_not_found", ErrProjectNotFound)
	}
	return p, nil
}

func (u Usecases) GetProject(ctx context.Context, userID, projectID uuid.UUID) (*types.Project, error) {
	return u.loadProject(ctx, userID, projectID)
}

func (u Usecases) ListProjects(ctx context.Context, userID uuid.UUID) ([]*types.Project, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	out, err := u.deps.Projects.ListByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "list_projects_failed", err)
	}
	return out, nil
}
