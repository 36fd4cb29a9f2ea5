package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"game-data-hub/internal/service"
	"game-data-hub/pkg/response"
)

type ProjectController struct {
	base
	service service.ProjectService
}

func NewProjectController(service service.ProjectService) *ProjectController {
	return &ProjectController{
		base:    newBase(),
		service: service,
	}
}

// CreateProject godoc
// @Summary Create a project owned by the caller
// @Tags projects
// @Accept json
// @Produce json
// @Param request body service.CreateProjectRequest true "Project"
// @Success 201 {object} response.StandardResponse{data=model.Project}
// @Router /api/v1/projects [post]
func (pc *ProjectController) CreateProject(c *gin.Context) {
	userID, ok := pc.userID(c)
	if !ok {
		return
	}
	var req service.CreateProjectRequest
	if !pc.bindJSON(c, &req) {
		return
	}

	project, err := pc.service.CreateProject(c.Request.Context(), userID, &req)
	if err != nil {
		pc.sendError(c, err)
		return
	}
	pc.sendSuccess(c, http.StatusCreated, project)
}

// ListProjects godoc
// @Summary List the caller's projects
// @Tags projects
// @Produce json
// @Param limit query int false "Maximum number of items to return (default: 20, max: 100)"
// @Param offset query int false "Number of items to skip (default: 0)"
// @Success 200 {object} response.StandardResponse{data=service.ListProjectsResponse}
// @Router /api/v1/projects [get]
func (pc *ProjectController) ListProjects(c *gin.Context) {
	userID, ok := pc.userID(c)
	if !ok {
		return
	}
	var req service.ListProjectsRequest
	if !pc.bindQuery(c, &req) {
		return
	}

	resp, err := pc.service.ListProjects(c.Request.Context(), userID, &req)
	if err != nil {
		pc.sendError(c, err)
		return
	}
	pc.sendSuccess(c, http.StatusOK, resp)
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	userID, ok := pc.userID(c)
	if !ok {
		return
	}
	id, ok := pc.pathID(c, "id")
	if !ok {
		return
	}

	project, err := pc.service.GetProject(c.Request.Context(), id, userID)
	if err != nil {
		pc.sendError(c, err)
		return
	}
	pc.sendSuccess(c, http.StatusOK, project)
}

func (pc *ProjectController) UpdateProject(c *gin.Context) {
	userID, ok := pc.userID(c)
	if !ok {
		return
	}
	id, ok := pc.pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateProjectRequest
	if !pc.bindJSON(c, &req) {
		return
	}

	project, err := pc.service.UpdateProject(c.Request.Context(), id, userID, &req)
	if err != nil {
		pc.sendError(c, err)
		return
	}
	pc.sendSuccess(c, http.StatusOK, project)
}

// DeleteProject removes the project with its tables and history
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	userID, ok := pc.userID(c)
	if !ok {
		return
	}
	id, ok := pc.pathID(c, "id")
	if !ok {
		return
	}

	if err := pc.service.DeleteProject(c.Request.Context(), id, userID); err != nil {
		pc.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message("Project deleted successfully", pc.correlationID(c)))
}
