package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"emergency-dispatch-service/internal/error/code"
)

// Response is the unified response envelope for every endpoint.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a success response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Fail writes a failure response for an error code.
func Fail(c *gin.Context, errorCode int, data interface{}) {
	httpStatus := code.GetStatus(errorCode)
	message := code.GetMessage(errorCode)

	c.JSON(httpStatus, Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// FailWithMessage writes a failure response with a custom message.
func FailWithMessage(c *gin.Context, errorCode int, message string, data interface{}) {
	httpStatus := code.GetStatus(errorCode)

	c.JSON(httpStatus, Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// ParamError writes a validation failure response.
func ParamError(c *gin.Context, message string) {
	FailWithMessage(c, code.ErrValidation, message, nil)
}

// ServerError writes a generic server error response.
func ServerError(c *gin.Context) {
	Fail(c, code.ErrUnknown, nil)
}
