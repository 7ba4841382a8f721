package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/middleware"
	"teamboard/repository"
	"teamboard/services"
)

// Deps is what every controller is registered with.
type Deps struct {
	Store      *repository.Store
	Tokens     *services.TokenManager
	Tasks      *services.TaskService
	Recurrence *services.RecurrenceGenerator
	Notifier   *services.Notifier
}

func (d *Deps) Auth() []gin.HandlerFunc {
	return middleware.Authenticated(d.Tokens, d.Store.Users)
}

var errorMessages = map[int]string{
	http.StatusUnauthorized: "Unauthorized",
	http.StatusForbidden:    "Forbidden",
	http.StatusNotFound:     "Not found",
	http.StatusConflict:     "Conflict",
}

// RespondError answers with the status err maps to. Validation errors carry
// their message; unexpected errors are logged and hidden.
func RespondError(c *gin.Context, err error) {
	status := services.StatusCode(err)
	switch {
	case status == http.StatusInternalServerError:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Internal server error"})
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		c.JSON(status, gin.H{"error": err.Error()})
	default:
		c.JSON(status, gin.H{"error": errorMessages[status]})
	}
}

// BindError answers 400 for a request body that failed to bind.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
}
