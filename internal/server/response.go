package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/instaclone/api/internal/httperr"
)

// RespondWithError classifies err and writes the error envelope. The
// envelope never contains internal details; those stay on the error's cause
// for logging.
func RespondWithError(c *gin.Context, err error) {
	appErr := httperr.FromError(err)
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK writes a 200 envelope. Extra key/value pairs are merged in next
// to the code field.
func RespondOK(c *gin.Context, body gin.H) {
	respond(c, http.StatusOK, body)
}

// RespondCreated writes a 201 envelope.
func RespondCreated(c *gin.Context, body gin.H) {
	respond(c, http.StatusCreated, body)
}

func respond(c *gin.Context, status int, body gin.H) {
	out := gin.H{"code": status}
	for k, v := range body {
		out[k] = v
	}
	c.JSON(status, out)
}
