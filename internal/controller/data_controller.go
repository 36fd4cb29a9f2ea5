package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"game-data-hub/internal/service"
	"game-data-hub/internal/utils"
	"game-data-hub/pkg/response"
)

// DataController serves row and cell endpoints
type DataController struct {
	base
	service service.DataService
}

func NewDataController(service service.DataService) *DataController {
	return &DataController{
		base:    newBase(),
		service: service,
	}
}

// GetTableData godoc
// @Summary Page through the rows of a table
// @Tags data
// @Produce json
// @Param table_id path int true "Table ID"
// @Param skip query int false "Rows to skip (default: 0)"
// @Param limit query int false "Maximum rows to return (default: 100, max: 1000)"
// @Success 200 {object} response.StandardResponse{data=service.TableDataResponse}
// @Router /api/v1/data/table/{table_id} [get]
func (dc *DataController) GetTableData(c *gin.Context) {
	tableID, ok := dc.pathID(c, "table_id")
	if !ok {
		return
	}
	var req service.ListRowsRequest
	if !dc.bindQuery(c, &req) {
		return
	}

	data, err := dc.service.GetTableData(c.Request.Context(), tableID, &req)
	if err != nil {
		dc.sendError(c, err)
		return
	}
	dc.sendSuccess(c, http.StatusOK, data)
}

// CreateRow godoc
// @Summary Create a row, filling omitted columns from their defaults
// @Tags data
// @Accept json
// @Produce json
// @Param request body service.CreateRowRequest true "Row"
// @Success 201 {object} response.StandardResponse{data=service.RowResponse}
// @Failure 422 {object} response.StandardResponse
// @Router /api/v1/rows [post]
func (dc *DataController) CreateRow(c *gin.Context) {
	var req service.CreateRowRequest
	if !dc.bindJSON(c, &req) {
		return
	}

	row, err := dc.service.CreateRow(c.Request.Context(), &req)
	if err != nil {
		dc.sendError(c, err)
		return
	}
	dc.sendSuccess(c, http.StatusCreated, row)
}

// UpdateRow godoc
// @Summary Overwrite named cells of a row, optionally committing the change
// @Tags data
// @Accept json
// @Produce json
// @Param id path int true "Row ID"
// @Param request body service.UpdateRowRequest true "Cells"
// @Success 200 {object} response.StandardResponse{data=service.UpdateRowResponse}
// @Router /api/v1/rows/{id} [patch]
func (dc *DataController) UpdateRow(c *gin.Context) {
	userID, ok := dc.userID(c)
	if !ok {
		return
	}
	rowID, ok := dc.pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateRowRequest
	if !dc.bindJSON(c, &req) {
		return
	}

	resp, err := dc.service.UpdateRow(c.Request.Context(), rowID, userID, &req)
	if err != nil {
		dc.sendError(c, err)
		return
	}
	dc.sendSuccess(c, http.StatusOK, resp)
}

func (dc *DataController) DeleteRow(c *gin.Context) {
	rowID, ok := dc.pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := dc.service.DeleteRow(c.Request.Context(), rowID)
	if err != nil {
		dc.sendError(c, err)
		return
	}
	if !deleted {
		dc.sendError(c, utils.NewNotFoundError("Row", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, response.Message("Row deleted successfully", dc.correlationID(c)))
}

// UpdateCell overwrites a single cell without type checking
func (dc *DataController) UpdateCell(c *gin.Context) {
	var req service.UpdateCellRequest
	if !dc.bindJSON(c, &req) {
		return
	}

	cell, err := dc.service.UpdateCell(c.Request.Context(), &req)
	if err != nil {
		dc.sendError(c, err)
		return
	}
	dc.sendSuccess(c, http.StatusOK, cell)
}
