package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog-service/internal/model"
)

// Error titles used in ErrorResponse.
const (
	ErrorValidation = "Validation Error"
	ErrorNotFound   = "Resource Not Found"
	ErrorInternal   = "Internal Server Error"
)

const internalErrorMessage = "An unexpected error occurred"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Controller handles general HTTP requests.
type Controller struct {
	db Pinger
}

// New creates a new Controller. A nil db makes Ping always succeed.
func New(db Pinger) *Controller {
	return &Controller{db: db}
}

// Ping handles the HTTP GET request for health check endpoint.
func (con *Controller) Ping(c *gin.Context) {
	if con.db != nil {
		if err := con.db.PingContext(c.Request.Context()); err != nil {
			slog.Error("Health check failed", slog.Any("err", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

// writeError maps err to its status code. Unclassified errors are logged and their message is not exposed.
func writeError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		abortWithError(c, http.StatusBadRequest, ErrorValidation, validationErr.Message)
	case errors.Is(err, model.ErrNotFound):
		abortWithError(c, http.StatusNotFound, ErrorNotFound, err.Error())
	default:
		slog.Error("Request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("err", err))
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, internalErrorMessage)
	}
}

func abortWithError(c *gin.Context, status int, title, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     title,
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}
