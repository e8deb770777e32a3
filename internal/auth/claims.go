package auth

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/instaclone/api/internal/auth/token"
	"github.com/instaclone/api/internal/user"
)

const (
	// Audience is the aud claim stamped into and required of every token.
	Audience = "instaclone"

	// AccessTokenTTL bounds how long an access token proves identity.
	AccessTokenTTL = 60 * time.Minute

	// RefreshTokenTTL is the refresh token lifetime. There is no server-side
	// registry, so a refresh token cannot be revoked before this expires.
	RefreshTokenTTL = 3 * 365 * 24 * time.Hour

	// DefaultPictureURL is assigned at signup when no picture is set.
	DefaultPictureURL = "https://bit.ly/3REd7XG"
)

// AccessClaims is the payload of an access token. It is never persisted;
// downstream reads may be stale for at most AccessTokenTTL.
type AccessClaims struct {
	gojwt.RegisteredClaims
	ID         string `json:"id"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Username   string `json:"username"`
	PictureURL string `json:"pictureUrl"`
	UsedFor    string `json:"usedFor"`
}

// TokenKind returns the kind decoded from the wire.
func (c *AccessClaims) TokenKind() token.Kind { return token.Kind(c.UsedFor) }

// NewAccessClaims builds access claims for the given user projection,
// expiring AccessTokenTTL from now.
func NewAccessClaims(p user.Projection, now time.Time) *AccessClaims {
	return &AccessClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Audience:  gojwt.ClaimStrings{Audience},
			ExpiresAt: gojwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
		ID:         p.ID.String(),
		Email:      p.Email,
		FullName:   p.FullName,
		Username:   p.Username,
		PictureURL: p.PictureURL,
		UsedFor:    string(token.KindAccess),
	}
}

// RefreshClaims is the payload of a refresh token. UserIP binds the token to
// the network address observed at issuance; this is a coarse anti-theft
// control, not strong security, since addresses can be NATed or shared.
type RefreshClaims struct {
	gojwt.RegisteredClaims
	Username string `json:"username"`
	UsedFor  string `json:"usedFor"`
	UserIP   string `json:"userIp"`
}

// TokenKind returns the kind decoded from the wire.
func (c *RefreshClaims) TokenKind() token.Kind { return token.Kind(c.UsedFor) }

// NewRefreshClaims builds refresh claims bound to peerAddr, expiring
// RefreshTokenTTL from now.
func NewRefreshClaims(username, peerAddr string, now time.Time) *RefreshClaims {
	return &RefreshClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Audience:  gojwt.ClaimStrings{Audience},
			ExpiresAt: gojwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
		Username: username,
		UsedFor:  string(token.KindRefresh),
		UserIP:   peerAddr,
	}
}
