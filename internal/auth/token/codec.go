// Package token provides a generic RS256 JWT codec.
//
// The codec is parameterized by a claims type T implementing Claims. Key
// material is supplied as Base64-encoded PEM strings and re-decoded on every
// call: no key is cached or mutated, trading CPU for statelessness.
//
// Every verified token must carry the kind the codec was built for, so a
// refresh token can never pass where an access token is expected even if the
// two claim shapes converge.
package token

import (
	"errors"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Kind discriminates token families on the wire via the usedFor claim.
type Kind string

const (
	// KindAccess marks short-lived access tokens.
	KindAccess Kind = "accessToken"
	// KindRefresh marks long-lived refresh tokens.
	KindRefresh Kind = "refreshToken"
)

// Classified codec failures. Callers map these to client- or server-fault
// responses; the codec itself never logs.
var (
	// ErrKeyMaterial reports undecodable or unparseable RSA key material.
	// This is a server fault.
	ErrKeyMaterial = errors.New("token: invalid key material")
	// ErrMalformed reports a token that failed signature, algorithm,
	// audience, or expiry checks. Deliberately generic so a caller cannot
	// learn which check failed.
	ErrMalformed = errors.New("token: invalid token")
	// ErrPayloadMismatch reports a cryptographically valid token whose
	// payload is not of the expected kind.
	ErrPayloadMismatch = errors.New("token: payload mismatch")
)

// Claims is implemented by every claim type the codec signs or verifies.
type Claims interface {
	gojwt.Claims
	// TokenKind returns the kind decoded from the wire.
	TokenKind() Kind
}

// Config holds the codec's key material and audience pin.
type Config struct {
	// PrivateKey is the RSA private key, Base64-encoded PEM.
	PrivateKey string
	// PublicKey is the RSA public key, Base64-encoded PEM.
	PublicKey string
	// Audience is the aud claim enforced on verification.
	Audience string
}

// Codec signs and verifies tokens of one kind with claims type T.
type Codec[T Claims] struct {
	cfg      Config
	kind     Kind
	newEmpty func() T
}

// NewCodec creates a codec for the given kind. The newEmpty function returns
// a zero-value instance of T for parsing.
func NewCodec[T Claims](cfg Config, kind Kind, newEmpty func() T) *Codec[T] {
	return &Codec[T]{cfg: cfg, kind: kind, newEmpty: newEmpty}
}

// Sign serializes claims and signs them with RS256. The private key is
// decoded from its Base64 PEM form on every call; decoding or parsing
// failure yields ErrKeyMaterial.
func (c *Codec[T]) Sign(claims T) (string, error) {
	key, err := DecodePrivateKey(c.cfg.PrivateKey)
	if err != nil {
		return "", err
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify validates the signature, algorithm, audience, and expiry of
// tokenString, then checks that the payload carries the codec's kind.
// Signature, algorithm, audience, and expiry failures all collapse into
// ErrMalformed; a valid token of the wrong kind yields ErrPayloadMismatch.
func (c *Codec[T]) Verify(tokenString string) (T, error) {
	var zero T

	key, err := DecodePublicKey(c.cfg.PublicKey)
	if err != nil {
		return zero, err
	}

	claims := c.newEmpty()
	parsed, err := gojwt.ParseWithClaims(tokenString, claims,
		func(*gojwt.Token) (interface{}, error) { return key, nil },
		gojwt.WithValidMethods([]string{gojwt.SigningMethodRS256.Alg()}),
		gojwt.WithAudience(c.cfg.Audience),
		gojwt.WithExpirationRequired(),
	)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !parsed.Valid {
		return zero, ErrMalformed
	}

	if claims.TokenKind() != c.kind {
		return zero, fmt.Errorf("%w: expected %s", ErrPayloadMismatch, c.kind)
	}
	return claims, nil
}
