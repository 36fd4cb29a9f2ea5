package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"game-data-hub/internal/cache"
	"game-data-hub/internal/model"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/utils"
)

type ProjectService interface {
	CreateProject(ctx context.Context, ownerID uint, req *CreateProjectRequest) (*model.Project, error)
	GetProject(ctx context.Context, id, userID uint) (*model.Project, error)
	ListProjects(ctx context.Context, ownerID uint, req *ListProjectsRequest) (*ListProjectsResponse, error)
	UpdateProject(ctx context.Context, id, userID uint, req *UpdateProjectRequest) (*model.Project, error)
	DeleteProject(ctx context.Context, id, userID uint) error
}

type projectService struct {
	store   repository.Store
	schemas *cache.SchemaCache
	log     logrus.FieldLogger
}

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=10000"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=10000"`
}

type ListProjectsRequest struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

type ListProjectsResponse struct {
	Projects []*model.Project `json:"projects"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(store repository.Store, schemas *cache.SchemaCache, log logrus.FieldLogger) ProjectService {
	return &projectService{
		store:   store,
		schemas: schemas,
		log:     log,
	}
}

func (s *projectService) CreateProject(ctx context.Context, ownerID uint, req *CreateProjectRequest) (*model.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.NewValidationError("Project name cannot be empty", "")
	}

	project := &model.Project{
		Name:        name,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := s.store.Projects().Create(ctx, project); err != nil {
		return nil, translateError(err, 0, "failed to create project")
	}
	return project, nil
}

// GetProject returns the project when userID owns it
func (s *projectService) GetProject(ctx context.Context, id, userID uint) (*model.Project, error) {
	project, err := s.store.Projects().GetByID(ctx, id)
	if err != nil {
		return nil, translateError(err, id, "failed to get project")
	}
	if project.OwnerID != userID {
		return nil, utils.NewAuthorizationError("Not enough permissions")
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, ownerID uint, req *ListProjectsRequest) (*ListProjectsResponse, error) {
	limit := clampLimit(req.Limit, defaultListLimit, maxListLimit)
	offset := clampOffset(req.Offset)

	projects, total, err := s.store.Projects().ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, translateError(err, 0, "failed to list projects")
	}

	return &ListProjectsResponse{
		Projects: projects,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id, userID uint, req *UpdateProjectRequest) (*model.Project, error) {
	project, err := s.GetProject(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, utils.NewValidationError("Project name cannot be empty", "")
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	if err := s.store.Projects().Update(ctx, project); err != nil {
		return nil, translateError(err, id, "failed to update project")
	}
	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id, userID uint) error {
	if _, err := s.GetProject(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.Projects().Delete(ctx, id); err != nil {
		return translateError(err, id, "failed to delete project")
	}

	if s.schemas != nil {
		s.schemas.InvalidateProject(id)
	}
	s.log.WithField("project_id", id).Info("project deleted")
	return nil
}
