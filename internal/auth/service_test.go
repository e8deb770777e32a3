package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/http"
	"testing"
	"time"

	"github.com/instaclone/api/internal/auth/password"
	"github.com/instaclone/api/internal/auth/token"
	"github.com/instaclone/api/internal/httperr"
	"github.com/instaclone/api/internal/user"
)

// testKeyConfig generates a fresh RSA key pair encoded the way deployments
// supply keys: Base64 over PEM.
func testKeyConfig(t *testing.T) token.Config {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate RSA key: %v", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return token.Config{
		PrivateKey: base64.StdEncoding.EncodeToString(privPEM),
		PublicKey:  base64.StdEncoding.EncodeToString(pubPEM),
	}
}

// lightHasher keeps argon2id cheap enough for tests.
func lightHasher() *password.Hasher {
	return password.NewHasher(password.Params{Time: 1, Memory: 8 * 1024, Threads: 1})
}

func newTestService(t *testing.T) (*Service, *user.MemoryRepository) {
	t.Helper()
	repo := user.NewMemoryRepository()
	return NewService(repo, lightHasher(), testKeyConfig(t)), repo
}

func signUpJohn(t *testing.T, svc *Service) {
	t.Helper()
	bio := "hello there"
	err := svc.SignUp(context.Background(), SignUpInput{
		Email:    "john@doe.com",
		FullName: "John Doe",
		Username: "johndoe",
		Bio:      &bio,
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
}

func asAppError(t *testing.T, err error) *httperr.Error {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr, ok := httperr.As(err)
	if !ok {
		t.Fatalf("expected *httperr.Error, got %T: %v", err, err)
	}
	return appErr
}

func TestSignUp_StoresHashedPasswordAndDefaults(t *testing.T) {
	svc, repo := newTestService(t)
	signUpJohn(t, svc)

	u, err := repo.FindByEmail(context.Background(), "john@doe.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if u.Password == "secret1" {
		t.Fatal("password stored in plaintext")
	}
	if ok, err := lightHasher().Verify("secret1", u.Password); err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
	if u.PictureURL != DefaultPictureURL {
		t.Fatalf("expected default picture URL, got %q", u.PictureURL)
	}
	if u.Bio == nil || *u.Bio != "hello there" {
		t.Fatalf("bio not stored: %v", u.Bio)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	signUpJohn(t, svc)

	err := svc.SignUp(context.Background(), SignUpInput{
		Email:    "john@doe.com",
		FullName: "Other John",
		Username: "otherjohn",
		Password: "secret2",
	})
	appErr := asAppError(t, err)
	if appErr.Code != httperr.ErrCodeDuplicateCredential {
		t.Fatalf("expected %s, got %s", httperr.ErrCodeDuplicateCredential, appErr.Code)
	}
	if appErr.Message != MsgEmailTaken {
		t.Fatalf("expected %q, got %q", MsgEmailTaken, appErr.Message)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", appErr.HTTPStatus)
	}
}

func TestSignIn_ByEmailAndByUsername(t *testing.T) {
	svc, _ := newTestService(t)
	signUpJohn(t, svc)

	for _, ident := range []string{"john@doe.com", "johndoe"} {
		res, err := svc.SignIn(context.Background(), ident, "secret1", "1.2.3.4")
		if err != nil {
			t.Fatalf("SignIn(%q) failed: %v", ident, err)
		}
		if res.User.Username != "johndoe" {
			t.Fatalf("unexpected user: %+v", res.User)
		}
		if res.AccessToken == "" || res.RefreshToken == "" {
			t.Fatal("expected both tokens to be issued")
		}
		if res.AccessToken == res.RefreshToken {
			t.Fatal("access and refresh tokens must differ")
		}
	}
}

func TestSignIn_UnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	signUpJohn(t, svc)

	_, unknownErr := svc.SignIn(context.Background(), "nobody", "secret1", "1.2.3.4")
	_, wrongErr := svc.SignIn(context.Background(), "johndoe", "wrongpass", "1.2.3.4")

	unknown := asAppError(t, unknownErr)
	wrong := asAppError(t, wrongErr)

	if unknown.Code != httperr.ErrCodeInvalidCredentials || wrong.Code != httperr.ErrCodeInvalidCredentials {
		t.Fatalf("expected %s for both, got %s and %s",
			httperr.ErrCodeInvalidCredentials, unknown.Code, wrong.Code)
	}
	if unknown.Message != wrong.Message || unknown.Message != MsgInvalidCredentials {
		t.Fatalf("messages must be identical and generic: %q vs %q", unknown.Message, wrong.Message)
	}
}

func TestSignIn_IssuedTokensVerify(t *testing.T) {
	svc, _ := newTestService(t)
	signUpJohn(t, svc)

	res, err := svc.SignIn(context.Background(), "johndoe", "secret1", "1.2.3.4")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	access, err := svc.access.Verify(res.AccessToken)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if access.Username != "johndoe" || access.Email != "john@doe.com" || access.FullName != "John Doe" {
		t.Fatalf("unexpected access claims: %+v", access)
	}
	if access.UsedFor != string(token.KindAccess) {
		t.Fatalf("expected usedFor %q, got %q", token.KindAccess, access.UsedFor)
	}

	refresh, err := svc.refresh.Verify(res.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token does not verify: %v", err)
	}
	if refresh.Username != "johndoe" || refresh.UserIP != "1.2.3.4" {
		t.Fatalf("unexpected refresh claims: %+v", refresh)
	}
}

func TestRefresh_SameAddressSucceeds(t *testing.T) {
	svc, _ := newTestService(t)
	signUpJohn(t, svc)

	res, err := svc.SignIn(context.Background(), "johndoe", "secret1", "1.2.3.4")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	accessToken, err := svc.Refresh(context.Background(), res.RefreshToken, "1.2.3.4")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	claims, err := svc.access.Verify(accessToken)
	if err != nil {
		t.Fatalf("minted access token does not verify: %v", err)
	}
	if claims.Username != "johndoe" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRefresh_DifferentAddressRejected(t *testing.T) {
	svc, _ := newTestService(t)
	signUpJohn(t, svc)

	res, err := svc.SignIn(context.Background(), "johndoe", "secret1", "1.2.3.4")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	_, err = svc.Refresh(context.Background(), res.RefreshToken, "5.6.7.8")
	appErr := asAppError(t, err)
	if appErr.Code != httperr.ErrCodeInvalidRefreshToken {
		t.Fatalf("expected %s, got %s", httperr.ErrCodeInvalidRefreshToken, appErr.Code)
	}
	if appErr.Message != MsgInvalidRefreshToken {
		t.Fatalf("expected %q, got %q", MsgInvalidRefreshToken, appErr.Message)
	}
}

func TestRefresh_AccessTokenRejectedAsWrongKind(t *testing.T) {
	svc, _ := newTestService(t)
	signUpJohn(t, svc)

	res, err := svc.SignIn(context.Background(), "johndoe", "secret1", "1.2.3.4")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	_, err = svc.Refresh(context.Background(), res.AccessToken, "1.2.3.4")
	appErr := asAppError(t, err)
	if appErr.Code != httperr.ErrCodeInvalidRefreshToken {
		t.Fatalf("expected %s, got %s", httperr.ErrCodeInvalidRefreshToken, appErr.Code)
	}
	if appErr.Message != MsgRefreshRelogin {
		t.Fatalf("expected %q, got %q", MsgRefreshRelogin, appErr.Message)
	}
}

func TestRefresh_GarbageTokenRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "not-a-token", "1.2.3.4")
	appErr := asAppError(t, err)
	if appErr.Code != httperr.ErrCodeInvalidRefreshToken {
		t.Fatalf("expected %s, got %s", httperr.ErrCodeInvalidRefreshToken, appErr.Code)
	}
	if appErr.Message != MsgInvalidRefreshToken {
		t.Fatalf("expected %q, got %q", MsgInvalidRefreshToken, appErr.Message)
	}
}

func TestRefresh_ExpiredTokenRejected(t *testing.T) {
	svc, _ := newTestService(t)
	signUpJohn(t, svc)

	// Issue tokens as if sign-in happened long enough ago that even the
	// refresh lifetime has elapsed.
	svc.now = func() time.Time { return time.Now().Add(-RefreshTokenTTL - time.Hour) }
	res, err := svc.SignIn(context.Background(), "johndoe", "secret1", "1.2.3.4")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	svc.now = time.Now

	_, err = svc.Refresh(context.Background(), res.RefreshToken, "1.2.3.4")
	appErr := asAppError(t, err)
	if appErr.Code != httperr.ErrCodeInvalidRefreshToken {
		t.Fatalf("expected %s, got %s", httperr.ErrCodeInvalidRefreshToken, appErr.Code)
	}
	if appErr.Message != MsgInvalidRefreshToken {
		t.Fatalf("expected %q, got %q", MsgInvalidRefreshToken, appErr.Message)
	}
}

func TestRefresh_SubjectDeleted(t *testing.T) {
	svc, repo := newTestService(t)
	signUpJohn(t, svc)

	res, err := svc.SignIn(context.Background(), "johndoe", "secret1", "1.2.3.4")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	u, err := repo.FindByUsername(context.Background(), "johndoe")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	if err := repo.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = svc.Refresh(context.Background(), res.RefreshToken, "1.2.3.4")
	appErr := asAppError(t, err)
	if appErr.Code != httperr.ErrCodeIdentityMissing {
		t.Fatalf("expected %s, got %s", httperr.ErrCodeIdentityMissing, appErr.Code)
	}
	if appErr.Message != MsgIdentityMissing {
		t.Fatalf("expected %q, got %q", MsgIdentityMissing, appErr.Message)
	}
}
