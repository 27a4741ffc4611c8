package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreatedResponse sends a 201 created response
func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, &Response{
		Success: false,
		Message: message,
	})
}

// BadRequestError sends a 400 error
func BadRequestError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

// NotFoundError sends a 404 error
func NotFoundError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

// NotFoundErrorWithID sends a 404 error naming the resource kind and id.
func NotFoundErrorWithID(c *gin.Context, resource string, id interface{}) {
	ErrorResponse(c, http.StatusNotFound, fmt.Sprintf("%s not found: %v", resource, id))
}

// InternalError sends a 500 error
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}
