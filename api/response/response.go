package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"licensing-core/types"
)

type errorBody struct {
	Code    types.ErrorKind `json:"code"`
	Message string          `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Error maps a service error onto its HTTP status. Anything outside the
// taxonomy is an internal error and its detail stays out of the body.
func Error(c *gin.Context, err error) {
	if kind, ok := types.KindOf(err); ok {
		c.JSON(statusOf(kind), errorResponse{Error: errorBody{Code: kind, Message: err.Error()}})
		return
	}
	slog.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, errorResponse{
		Error: errorBody{Code: "INTERNAL", Message: "internal server error"},
	})
}

func statusOf(kind types.ErrorKind) int {
	switch kind {
	case types.KindNotFound:
		return http.StatusNotFound
	case types.KindConflict:
		return http.StatusConflict
	case types.KindInvalidArgument, types.KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
