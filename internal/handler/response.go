package handler

import (
	"net/http"
	"strconv"

	"github.com/alain-michael/Isonga-Platform-sub001/internal/apperr"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/model"
	"github.com/gin-gonic/gin"
)

// Response is the common envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SuccessResponse writes a success envelope.
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes an error envelope.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// AppErrorResponse maps the logic layer's typed error codes to HTTP
// statuses in one place; handlers never branch on status strings.
func AppErrorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.CodeOf(err) {
	case apperr.CodeValidation:
		status = http.StatusBadRequest
	case apperr.CodeInvalidTransition:
		status = http.StatusConflict
	case apperr.CodeConcurrencyConflict:
		status = http.StatusConflict
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeForbidden:
		status = http.StatusForbidden
	}
	ErrorResponse(c, status, err.Error())
}

// ActorFromRequest reads the acting party from the gateway headers. The
// gateway owns authentication; this core only needs the identity.
func ActorFromRequest(c *gin.Context) (model.Actor, bool) {
	role := model.Role(c.GetHeader("X-Actor-Role"))
	id, err := strconv.ParseInt(c.GetHeader("X-Actor-Id"), 10, 64)
	switch role {
	case model.RoleEnterprise, model.RoleAdmin, model.RoleInvestor:
	default:
		ErrorResponse(c, http.StatusUnauthorized, "unknown actor role")
		return model.Actor{}, false
	}
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusUnauthorized, "missing actor id")
		return model.Actor{}, false
	}
	return model.Actor{Role: role, Id: id}, true
}

// PathId parses the named int64 path parameter.
func PathId(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
