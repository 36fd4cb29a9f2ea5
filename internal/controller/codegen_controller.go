package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"game-data-hub/internal/service"
	"game-data-hub/internal/utils"
)

// CodegenController renders tables into engine formats and exports them
type CodegenController struct {
	base
	generator service.CodeGenerationService
	exports   service.ExportService
}

func NewCodegenController(generator service.CodeGenerationService, exports service.ExportService) *CodegenController {
	return &CodegenController{
		base:      newBase(),
		generator: generator,
		exports:   exports,
	}
}

func (cc *CodegenController) Formats(c *gin.Context) {
	cc.sendSuccess(c, http.StatusOK, cc.generator.Formats())
}

// Generate godoc
// @Summary Download a table rendered in the requested format
// @Tags codegen
// @Produce octet-stream
// @Param id path int true "Table ID"
// @Param format query string true "Generator name (unity, unreal, json, avro, yaml)"
// @Success 200 {file} file
// @Failure 422 {object} response.StandardResponse
// @Router /api/v1/tables/{id}/generate [get]
func (cc *CodegenController) Generate(c *gin.Context) {
	tableID, ok := cc.pathID(c, "id")
	if !ok {
		return
	}
	format, ok := cc.format(c)
	if !ok {
		return
	}

	file, err := cc.generator.GenerateForTable(c.Request.Context(), tableID, format)
	if err != nil {
		cc.sendError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.MimeType, []byte(file.Content))
}

// Snapshot returns the schema and rows in the gdhgen input format
func (cc *CodegenController) Snapshot(c *gin.Context) {
	tableID, ok := cc.pathID(c, "id")
	if !ok {
		return
	}

	snapshot, err := cc.generator.Snapshot(c.Request.Context(), tableID)
	if err != nil {
		cc.sendError(c, err)
		return
	}
	cc.sendSuccess(c, http.StatusOK, snapshot)
}

// Export godoc
// @Summary Render a table and store the artifact in the export bucket
// @Tags codegen
// @Produce json
// @Param id path int true "Table ID"
// @Param format query string true "Generator name"
// @Success 201 {object} response.StandardResponse{data=blob.Info}
// @Failure 502 {object} response.StandardResponse
// @Router /api/v1/tables/{id}/export [post]
func (cc *CodegenController) Export(c *gin.Context) {
	tableID, ok := cc.pathID(c, "id")
	if !ok {
		return
	}
	format, ok := cc.format(c)
	if !ok {
		return
	}

	info, err := cc.exports.Export(c.Request.Context(), tableID, format)
	if err != nil {
		cc.sendError(c, err)
		return
	}
	cc.sendSuccess(c, http.StatusCreated, info)
}

func (cc *CodegenController) ListExports(c *gin.Context) {
	tableID, ok := cc.pathID(c, "id")
	if !ok {
		return
	}

	infos, err := cc.exports.ListExports(c.Request.Context(), tableID)
	if err != nil {
		cc.sendError(c, err)
		return
	}
	cc.sendSuccess(c, http.StatusOK, infos)
}

func (cc *CodegenController) format(c *gin.Context) (string, bool) {
	format := c.Query("format")
	if format == "" {
		cc.sendError(c, utils.NewErrorBuilder(utils.ErrCodeInvalidParameters).
			WithDetails("format query parameter is required").
			Build())
		return "", false
	}
	return format, true
}
