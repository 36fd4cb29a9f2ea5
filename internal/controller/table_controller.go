package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"game-data-hub/internal/service"
	"game-data-hub/pkg/response"
)

// TableController serves table and column schema endpoints
type TableController struct {
	base
	service service.TableService
}

func NewTableController(service service.TableService) *TableController {
	return &TableController{
		base:    newBase(),
		service: service,
	}
}

// CreateTable godoc
// @Summary Create a table in a project
// @Tags tables
// @Accept json
// @Produce json
// @Param request body service.CreateTableRequest true "Table"
// @Success 201 {object} response.StandardResponse{data=model.Table}
// @Failure 404 {object} response.StandardResponse
// @Router /api/v1/tables [post]
func (tc *TableController) CreateTable(c *gin.Context) {
	var req service.CreateTableRequest
	if !tc.bindJSON(c, &req) {
		return
	}

	table, err := tc.service.CreateTable(c.Request.Context(), &req)
	if err != nil {
		tc.sendError(c, err)
		return
	}
	tc.sendSuccess(c, http.StatusCreated, table)
}

func (tc *TableController) ListTables(c *gin.Context) {
	projectID, ok := tc.pathID(c, "project_id")
	if !ok {
		return
	}

	tables, err := tc.service.ListTables(c.Request.Context(), projectID)
	if err != nil {
		tc.sendError(c, err)
		return
	}
	tc.sendSuccess(c, http.StatusOK, tables)
}

// GetTable returns the table with its columns in display order
func (tc *TableController) GetTable(c *gin.Context) {
	id, ok := tc.pathID(c, "id")
	if !ok {
		return
	}

	table, err := tc.service.GetTable(c.Request.Context(), id)
	if err != nil {
		tc.sendError(c, err)
		return
	}
	tc.sendSuccess(c, http.StatusOK, table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := tc.pathID(c, "id")
	if !ok {
		return
	}

	if err := tc.service.DeleteTable(c.Request.Context(), id); err != nil {
		tc.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message("Table deleted successfully", tc.correlationID(c)))
}

// CreateColumn godoc
// @Summary Add a typed column to a table
// @Tags tables
// @Accept json
// @Produce json
// @Param id path int true "Table ID"
// @Param request body service.CreateColumnRequest true "Column"
// @Success 201 {object} response.StandardResponse{data=model.Column}
// @Failure 422 {object} response.StandardResponse
// @Router /api/v1/tables/{id}/columns [post]
func (tc *TableController) CreateColumn(c *gin.Context) {
	tableID, ok := tc.pathID(c, "id")
	if !ok {
		return
	}
	var req service.CreateColumnRequest
	if !tc.bindJSON(c, &req) {
		return
	}

	column, err := tc.service.CreateColumn(c.Request.Context(), tableID, &req)
	if err != nil {
		tc.sendError(c, err)
		return
	}
	tc.sendSuccess(c, http.StatusCreated, column)
}

func (tc *TableController) ListColumns(c *gin.Context) {
	tableID, ok := tc.pathID(c, "id")
	if !ok {
		return
	}

	columns, err := tc.service.ListColumns(c.Request.Context(), tableID)
	if err != nil {
		tc.sendError(c, err)
		return
	}
	tc.sendSuccess(c, http.StatusOK, columns)
}

func (tc *TableController) DeleteColumn(c *gin.Context) {
	id, ok := tc.pathID(c, "id")
	if !ok {
		return
	}

	if err := tc.service.DeleteColumn(c.Request.Context(), id); err != nil {
		tc.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message("Column deleted successfully", tc.correlationID(c)))
}
