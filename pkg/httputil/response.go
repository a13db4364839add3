package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/property-api/pkg/errors"
	pkgvalidator "github.com/jwalitptl/property-api/pkg/validator"
)

// Response wraps all API responses
type Response struct {
	Status  string                    `json:"status"`
	Message string                    `json:"message,omitempty"`
	Code    int                       `json:"code,omitempty"`
	Data    interface{}               `json:"data,omitempty"`
	Errors  []pkgvalidator.FieldError `json:"errors,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{Status: "success", Data: data}
}

func NewErrorResponse(code int, message string) *Response {
	return &Response{Status: "error", Code: code, Message: message}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, NewSuccessResponse(data))
}

// RespondWithError maps err onto a status code and sends an error body.
// Anything that is not an AppError or a validation failure is reported as a
// bare 500 so internals never leak.
func RespondWithError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		resp := NewErrorResponse(http.StatusBadRequest, "validation failed")
		resp.Errors = pkgvalidator.Describe(verrs)
		c.AbortWithStatusJSON(http.StatusBadRequest, resp)
		return
	}

	if appErr, ok := errors.As(err); ok {
		status := appErr.StatusCode()
		message := appErr.Message
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
		c.AbortWithStatusJSON(status, NewErrorResponse(status, message))
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError,
		NewErrorResponse(http.StatusInternalServerError, "internal server error"))
}

// StatusOf reports the status RespondWithError would pick.
func StatusOf(err error) int {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		return http.StatusBadRequest
	}
	if appErr, ok := errors.As(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}
