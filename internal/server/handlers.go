package server

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/instaclone/api/internal/auth"
	"github.com/instaclone/api/internal/httperr"
	"github.com/instaclone/api/internal/logger"
	"github.com/instaclone/api/internal/server/middleware"
)

// AuthHandler exposes the credential endpoints over HTTP.
type AuthHandler struct {
	service *auth.Service
	log     *logger.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(service *auth.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log.WithComponent("auth")}
}

// SignUp handles POST /api/v1/auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var payload auth.SignUpPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondWithError(c, httperr.BadRequest(httperr.ErrCodeValidationFailure, "Invalid request body").WithCause(err))
		return
	}
	if err := auth.ValidatePayload(&payload); err != nil {
		RespondWithError(c, err)
		return
	}

	err := h.service.SignUp(c.Request.Context(), auth.SignUpInput{
		Email:    *payload.Email,
		FullName: *payload.FullName,
		Username: *payload.Username,
		Bio:      payload.Bio,
		Password: *payload.Password,
	})
	if err != nil {
		h.logFailure("signup failed", err)
		RespondWithError(c, err)
		return
	}

	RespondCreated(c, nil)
}

// SignIn handles POST /api/v1/auth.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var payload auth.SignInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondWithError(c, httperr.BadRequest(httperr.ErrCodeValidationFailure, "Invalid request body").WithCause(err))
		return
	}
	if err := auth.ValidatePayload(&payload); err != nil {
		RespondWithError(c, err)
		return
	}

	result, err := h.service.SignIn(c.Request.Context(),
		*payload.EmailUsername, *payload.Password, peerAddr(c.Request))
	if err != nil {
		h.logFailure("sign-in failed", err)
		RespondWithError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"data":         result.User,
		"token":        result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

// RefreshToken handles POST /api/v1/auth/token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var payload auth.RefreshPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondWithError(c, httperr.BadRequest(httperr.ErrCodeValidationFailure, "Invalid request body").WithCause(err))
		return
	}
	if err := auth.ValidatePayload(&payload); err != nil {
		RespondWithError(c, err)
		return
	}

	newToken, err := h.service.Refresh(c.Request.Context(),
		*payload.RefreshToken, peerAddr(c.Request))
	if err != nil {
		h.logFailure("token refresh failed", err)
		RespondWithError(c, err)
		return
	}

	RespondOK(c, gin.H{"token": newToken})
}

// Me handles GET /api/v1/auth/me. The authentication gate has already
// verified the token; this is a pure passthrough of its claims.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		RespondWithError(c, httperr.Internal(httperr.ErrCodeInternal, nil))
		return
	}
	RespondOK(c, gin.H{"data": claims})
}

// logFailure records a failed operation; server faults at error level with
// the cause, client faults at warn.
func (h *AuthHandler) logFailure(msg string, err error) {
	appErr := httperr.FromError(err)
	fields := map[string]interface{}{"error_code": string(appErr.Code)}
	if httperr.IsServerFault(appErr.Code) {
		h.log.WithError(err).Error(msg, fields)
		return
	}
	h.log.Warn(msg, fields)
}

// peerAddr returns the connection's remote host with the port stripped.
// Forwarded headers are deliberately ignored: refresh binding tracks the
// observed network peer, not what the client claims.
func peerAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
