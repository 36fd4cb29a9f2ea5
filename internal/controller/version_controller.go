package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"game-data-hub/internal/service"
	"game-data-hub/pkg/response"
)

// VersionController serves the commit ledger
type VersionController struct {
	base
	service service.VersionService
}

func NewVersionController(service service.VersionService) *VersionController {
	return &VersionController{
		base:    newBase(),
		service: service,
	}
}

// Commit godoc
// @Summary Record a change map as a new version
// @Tags versions
// @Accept json
// @Produce json
// @Param request body service.CommitRequest true "Commit"
// @Success 201 {object} response.StandardResponse{data=model.Version}
// @Failure 422 {object} response.StandardResponse
// @Router /api/v1/versions/commit [post]
func (vc *VersionController) Commit(c *gin.Context) {
	userID, ok := vc.userID(c)
	if !ok {
		return
	}
	var req service.CommitRequest
	if !vc.bindJSON(c, &req) {
		return
	}

	version, err := vc.service.Commit(c.Request.Context(), userID, &req)
	if err != nil {
		vc.sendError(c, err)
		return
	}
	vc.sendSuccess(c, http.StatusCreated, version)
}

// ComputeDiff compares two snapshots without storing anything
func (vc *VersionController) ComputeDiff(c *gin.Context) {
	var req service.ComputeDiffRequest
	if !vc.bindJSON(c, &req) {
		return
	}
	vc.sendSuccess(c, http.StatusOK, vc.service.ComputeDiff(&req))
}

func (vc *VersionController) GetDiff(c *gin.Context) {
	id, ok := vc.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := vc.service.GetDiff(c.Request.Context(), id)
	if err != nil {
		vc.sendError(c, err)
		return
	}
	vc.sendSuccess(c, http.StatusOK, resp)
}

// Rollback godoc
// @Summary Restore the old values recorded by a version
// @Tags versions
// @Produce json
// @Param id path int true "Version ID"
// @Success 200 {object} response.StandardResponse
// @Failure 403 {object} response.StandardResponse
// @Failure 404 {object} response.StandardResponse
// @Router /api/v1/versions/{id}/rollback [post]
func (vc *VersionController) Rollback(c *gin.Context) {
	userID, ok := vc.userID(c)
	if !ok {
		return
	}
	id, ok := vc.pathID(c, "id")
	if !ok {
		return
	}

	if _, err := vc.service.Rollback(c.Request.Context(), id, userID); err != nil {
		vc.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message("Rollback successful", vc.correlationID(c)))
}

func (vc *VersionController) ListByProject(c *gin.Context) {
	projectID, ok := vc.pathID(c, "project_id")
	if !ok {
		return
	}
	var req service.ListVersionsRequest
	if !vc.bindQuery(c, &req) {
		return
	}

	resp, err := vc.service.ListByProject(c.Request.Context(), projectID, &req)
	if err != nil {
		vc.sendError(c, err)
		return
	}
	vc.sendSuccess(c, http.StatusOK, resp)
}

func (vc *VersionController) ListByTable(c *gin.Context) {
	tableID, ok := vc.pathID(c, "table_id")
	if !ok {
		return
	}
	var req service.ListVersionsRequest
	if !vc.bindQuery(c, &req) {
		return
	}

	resp, err := vc.service.ListByTable(c.Request.Context(), tableID, &req)
	if err != nil {
		vc.sendError(c, err)
		return
	}
	vc.sendSuccess(c, http.StatusOK, resp)
}

func (vc *VersionController) DeleteVersion(c *gin.Context) {
	id, ok := vc.pathID(c, "id")
	if !ok {
		return
	}

	if err := vc.service.DeleteVersion(c.Request.Context(), id); err != nil {
		vc.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message("Version deleted successfully", vc.correlationID(c)))
}
