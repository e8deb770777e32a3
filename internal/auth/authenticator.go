package auth

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/instaclone/api/internal/auth/token"
	"github.com/instaclone/api/internal/httperr"
)

// Request-shape messages for the authentication gate.
const (
	MsgMissingAuthorization = "Missing Authorization from the header"
	MsgMalformedHeader      = "Invalid Authorization header value"
	MsgMissingBearerToken   = "Missing bearer token in authorization header"
	MsgInvalidToken         = "Invalid JWT token"
	MsgInvalidPayload       = "Invalid payload"
)

// Authenticator is the request-time gate applied before protected handlers.
// It performs no I/O beyond the cryptographic verification and never touches
// the repository: identity freshness is bounded by token expiry.
type Authenticator struct {
	access *token.Codec[*AccessClaims]
}

// NewAuthenticator creates an Authenticator verifying access tokens against
// the process-wide public key in keys.
func NewAuthenticator(keys token.Config) *Authenticator {
	keys.Audience = Audience
	return &Authenticator{
		access: token.NewCodec(keys, token.KindAccess, func() *AccessClaims { return &AccessClaims{} }),
	}
}

// Authenticate extracts and verifies the bearer credential from headers,
// returning the authenticated claims or a classified rejection.
func (a *Authenticator) Authenticate(headers http.Header) (*AccessClaims, error) {
	values, ok := headers["Authorization"]
	if !ok || len(values) == 0 {
		return nil, httperr.BadRequest(httperr.ErrCodeMissingCredential, MsgMissingAuthorization)
	}

	header := values[0]
	if !utf8.ValidString(header) {
		return nil, httperr.BadRequest(httperr.ErrCodeMalformedHeader, MsgMalformedHeader)
	}

	bearer, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, httperr.BadRequest(httperr.ErrCodeMissingBearerToken, MsgMissingBearerToken)
	}

	claims, err := a.access.Verify(bearer)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrKeyMaterial):
			return nil, httperr.Internal(httperr.ErrCodeKeyMaterial, err)
		case errors.Is(err, token.ErrPayloadMismatch):
			return nil, httperr.BadRequest(httperr.ErrCodePayloadMismatch, MsgInvalidPayload).WithCause(err)
		default:
			return nil, httperr.BadRequest(httperr.ErrCodeMalformedToken, MsgInvalidToken).WithCause(err)
		}
	}
	return claims, nil
}
