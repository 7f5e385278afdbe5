package controllers

import (
	"errors"
	"net/http"

	"github.com/date-course/api-go/services"
	"github.com/date-course/api-go/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps service errors onto HTTP statuses. Anything unexpected
// is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to access this resource"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInsufficientPoints):
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough points"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// actorFrom returns the caller, or a zero Actor on public routes.
func actorFrom(c *gin.Context) services.Actor {
	user := utils.GetUser(c)
	if user == nil {
		return services.Actor{}
	}
	return services.Actor{UserID: user.UserID, IsAdmin: user.IsAdmin}
}

// idParam writes the 400 itself and reports whether the handler may go on.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ParseIDParam(c, name)
	if err != nil {
		badRequest(c, err.Error())
		return 0, false
	}
	return id, true
}

// requireSelf allows the user themselves or an admin.
func requireSelf(c *gin.Context, userID uint) bool {
	if !utils.GetUser(c).CanActFor(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to access this resource"})
		return false
	}
	return true
}

// bindOptionalJSON treats an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, dest interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dest)
}

// defaultUser fills a missing body user_id with the caller's id.
func defaultUser(c *gin.Context, userID uint) uint {
	if userID != 0 {
		return userID
	}
	if user := utils.GetUser(c); user != nil {
		return user.UserID
	}
	return 0
}
