package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"game-data-hub/internal/middleware"
	"game-data-hub/internal/security"
	"game-data-hub/internal/utils"
	"game-data-hub/pkg/response"
)

// base carries the helpers every controller shares
type base struct {
	validator *validator.Validate
}

func newBase() base {
	return base{validator: validator.New()}
}

// bindJSON decodes and validates the request body, answering the request
// itself on failure.
func (b base) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		b.sendError(c, utils.NewErrorBuilder(utils.ErrCodeInvalidJSON).WithDetails(err.Error()).Build())
		return false
	}
	if err := b.validator.Struct(req); err != nil {
		b.sendError(c, utils.NewValidationError("Validation failed", err.Error()))
		return false
	}
	return true
}

// bindQuery is bindJSON for query parameters
func (b base) bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		b.sendError(c, utils.NewErrorBuilder(utils.ErrCodeInvalidParameters).WithDetails(err.Error()).Build())
		return false
	}
	if err := b.validator.Struct(req); err != nil {
		b.sendError(c, utils.NewValidationError("Validation failed", err.Error()))
		return false
	}
	return true
}

// pathID parses a positive integer path parameter
func (b base) pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		b.sendError(c, utils.NewErrorBuilder(utils.ErrCodeInvalidID).
			WithDetails(name+" must be a positive integer").
			Build())
		return 0, false
	}
	return uint(id), true
}

// userID returns the authenticated user; RequireAuth guarantees one
func (b base) userID(c *gin.Context) (uint, bool) {
	id, ok := security.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Authentication required", b.correlationID(c)))
		return 0, false
	}
	return id, true
}

func (b base) sendError(c *gin.Context, err error) {
	if appErr, ok := utils.AsAppError(err); !ok || appErr.Cause != nil {
		_ = c.Error(err)
	}
	c.JSON(response.FromError(err, b.correlationID(c)))
}

func (b base) sendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, response.Success(data, b.correlationID(c)))
}

func (b base) correlationID(c *gin.Context) string {
	return middleware.GetCorrelationID(c)
}
