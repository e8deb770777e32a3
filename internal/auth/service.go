// Package auth implements the credential and token-lifecycle core: signup,
// sign-in, refresh, and the request-time authentication gate.
//
// Every operation is a stateless function over its inputs; all state lives
// in the user repository and inside signed tokens. The package never logs
// and never writes to a socket — it only returns classified errors.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/instaclone/api/internal/auth/password"
	"github.com/instaclone/api/internal/auth/token"
	"github.com/instaclone/api/internal/httperr"
	"github.com/instaclone/api/internal/user"
)

// Static client-facing messages. The sign-in message is shared between
// "no such account" and "wrong password" so the two are indistinguishable.
const (
	MsgEmailTaken          = "This email is already taken"
	MsgInvalidCredentials  = "Your email/username and password are wrong!"
	MsgInvalidRefreshToken = "Invalid refresh token"
	MsgRefreshRelogin      = "Invalid refresh token. Please re-login"
	MsgIdentityMissing     = "Somehow your account is missing from our database"
)

// Service orchestrates signup, sign-in, and refresh over the password
// hasher, the token codecs, and the user repository.
type Service struct {
	users   user.Repository
	hasher  *password.Hasher
	access  *token.Codec[*AccessClaims]
	refresh *token.Codec[*RefreshClaims]
	now     func() time.Time
}

// NewService creates a Service. Key material inside keys stays Base64 PEM
// strings; the codecs decode it per call.
func NewService(users user.Repository, hasher *password.Hasher, keys token.Config) *Service {
	keys.Audience = Audience
	return &Service{
		users:   users,
		hasher:  hasher,
		access:  token.NewCodec(keys, token.KindAccess, func() *AccessClaims { return &AccessClaims{} }),
		refresh: token.NewCodec(keys, token.KindRefresh, func() *RefreshClaims { return &RefreshClaims{} }),
		now:     time.Now,
	}
}

// SignUpInput is the validated signup data.
type SignUpInput struct {
	Email    string
	FullName string
	Username string
	Bio      *string
	Password string
}

// SignUp registers a new user. The email pre-check is best-effort; the
// repository's unique constraint is what resolves concurrent signups with
// the same email to exactly one success.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) error {
	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return httperr.BadRequest(httperr.ErrCodeDuplicateCredential, MsgEmailTaken)
	case !errors.Is(err, user.ErrNotFound):
		return httperr.Internal(httperr.ErrCodeStorageFailure, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return httperr.Internal(httperr.ErrCodeHashingFailure, err)
	}

	err = s.users.Create(ctx, &user.User{
		ID:         uuid.New(),
		Email:      in.Email,
		Name:       in.FullName,
		Username:   in.Username,
		Bio:        in.Bio,
		PictureURL: DefaultPictureURL,
		Password:   hash,
	})
	if errors.Is(err, user.ErrDuplicate) {
		return httperr.BadRequest(httperr.ErrCodeDuplicateCredential, MsgEmailTaken)
	}
	if err != nil {
		return httperr.Internal(httperr.ErrCodeStorageFailure, err)
	}
	return nil
}

// SignInResult carries the outcome of a successful sign-in: the identity
// projection plus exactly one access token and one refresh token.
type SignInResult struct {
	User         user.Projection
	AccessToken  string
	RefreshToken string
}

// SignIn authenticates emailOrUsername + plaintext password. An identifier
// containing '@' is looked up by email, otherwise by username. Unknown
// identifier and wrong password produce the identical error. peerAddr is
// recorded into the refresh token for later binding checks.
func (s *Service) SignIn(ctx context.Context, emailOrUsername, plaintext, peerAddr string) (*SignInResult, error) {
	var (
		u   *user.User
		err error
	)
	if strings.Contains(emailOrUsername, "@") {
		u, err = s.users.FindByEmail(ctx, emailOrUsername)
	} else {
		u, err = s.users.FindByUsername(ctx, emailOrUsername)
	}
	if errors.Is(err, user.ErrNotFound) {
		return nil, httperr.BadRequest(httperr.ErrCodeInvalidCredentials, MsgInvalidCredentials)
	}
	if err != nil {
		return nil, httperr.Internal(httperr.ErrCodeStorageFailure, err)
	}

	ok, err := s.hasher.Verify(plaintext, u.Password)
	if err != nil {
		return nil, httperr.Internal(httperr.ErrCodeHashingFailure, err)
	}
	if !ok {
		return nil, httperr.BadRequest(httperr.ErrCodeInvalidCredentials, MsgInvalidCredentials)
	}

	now := s.now()
	projection := u.Project()

	accessToken, err := s.access.Sign(NewAccessClaims(projection, now))
	if err != nil {
		return nil, classifySignError(err)
	}
	refreshToken, err := s.refresh.Sign(NewRefreshClaims(u.Username, peerAddr, now))
	if err != nil {
		return nil, classifySignError(err)
	}

	return &SignInResult{
		User:         projection,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh mints a new access token from a refresh token presented from
// peerAddr. The token must verify, carry the refresh kind, and be bound to
// peerAddr; then the subject must still exist.
func (s *Service) Refresh(ctx context.Context, refreshToken, peerAddr string) (string, error) {
	claims, err := s.refresh.Verify(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrKeyMaterial):
			return "", httperr.Internal(httperr.ErrCodeKeyMaterial, err)
		case errors.Is(err, token.ErrPayloadMismatch):
			return "", httperr.BadRequest(httperr.ErrCodeInvalidRefreshToken, MsgRefreshRelogin).WithCause(err)
		default:
			return "", httperr.BadRequest(httperr.ErrCodeInvalidRefreshToken, MsgInvalidRefreshToken).WithCause(err)
		}
	}

	// A token replayed from a different address than the one observed at
	// issuance is treated as stolen.
	if claims.UserIP != peerAddr {
		return "", httperr.BadRequest(httperr.ErrCodeInvalidRefreshToken, MsgInvalidRefreshToken)
	}

	u, err := s.users.FindByUsername(ctx, claims.Username)
	if errors.Is(err, user.ErrNotFound) {
		return "", httperr.BadRequest(httperr.ErrCodeIdentityMissing, MsgIdentityMissing)
	}
	if err != nil {
		return "", httperr.Internal(httperr.ErrCodeStorageFailure, err)
	}

	accessToken, err := s.access.Sign(NewAccessClaims(u.Project(), s.now()))
	if err != nil {
		return "", classifySignError(err)
	}
	return accessToken, nil
}

func classifySignError(err error) *httperr.Error {
	if errors.Is(err, token.ErrKeyMaterial) {
		return httperr.Internal(httperr.ErrCodeKeyMaterial, err)
	}
	return httperr.Internal(httperr.ErrCodeInternal, err)
}
