package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf/apperr"
	"bookshelf/log"
)

// errorBody is the envelope of every failed call.
type errorBody struct {
	Message string `json:"message"`
}

func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindPersistence:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	log.GetLogger(c.Request.Context()).WithError(err).Errorf("Request failed with %d: %s", status, msg)
	c.AbortWithStatusJSON(status, errorBody{Message: msg})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
