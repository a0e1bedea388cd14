package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/server/http/dto"
	"github.com/polkiloo/pos80/internal/server/http/middleware"
)

// CurrentActor extracts the authenticated staff member from context.
func CurrentActor(c *gin.Context) model.Actor {
	actor, _ := middleware.Actor(c)
	return actor
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var validation *domainErrors.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: validation.Reason, Field: validation.Field})
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrTillAlreadyOpen),
		errors.Is(err, domainErrors.ErrTillNotOpen),
		errors.Is(err, domainErrors.ErrAlreadyExists),
		errors.Is(err, domainErrors.ErrTrackingExhausted):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: domainErrors.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

// printResult answers 200 whether or not the sink accepted the job. Only a
// failure unrelated to printing is an error status.
func printResult(c *gin.Context, ack model.PrintAck, err error) {
	if err == nil {
		c.JSON(http.StatusOK, dto.PrintResponse{Ack: &ack})
		return
	}
	if errors.Is(err, domainErrors.ErrPrint) {
		c.JSON(http.StatusOK, dto.PrintResponse{PrintWarning: err.Error()})
		return
	}
	writeError(c, err)
}
