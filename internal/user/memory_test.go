package user

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newUser(email, username string) *User {
	return &User{
		ID:         uuid.New(),
		Email:      email,
		Name:       "John Doe",
		Username:   username,
		PictureURL: "https://example.com/p.png",
		Password:   "$argon2id$...",
	}
}

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	u := newUser("john@doe.com", "johndoe")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatal("timestamps must be stamped on create")
	}

	byEmail, err := repo.FindByEmail(ctx, "john@doe.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	byUsername, err := repo.FindByUsername(ctx, "johndoe")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	byID, err := repo.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byEmail.ID != u.ID || byUsername.ID != u.ID || byID.ID != u.ID {
		t.Fatal("lookups must return the same user")
	}
}

func TestMemoryRepository_NotFound(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.FindByEmail(ctx, "nobody@doe.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestMemoryRepository_DuplicateEmailOrUsername(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("john@doe.com", "johndoe")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, newUser("john@doe.com", "otherjohn")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email: expected ErrDuplicate, got: %v", err)
	}
	if err := repo.Create(ctx, newUser("other@doe.com", "johndoe")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username: expected ErrDuplicate, got: %v", err)
	}
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	u := newUser("john@doe.com", "johndoe")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
}

func TestProjection_OmitsPassword(t *testing.T) {
	u := newUser("john@doe.com", "johndoe")
	raw, err := json.Marshal(u.Project())
	if err != nil {
		t.Fatalf("marshal projection: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal projection: %v", err)
	}
	for _, key := range []string{"id", "email", "fullName", "username", "pictureUrl"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("projection missing %q: %s", key, raw)
		}
	}
	if _, ok := fields["password"]; ok {
		t.Fatalf("projection must not carry the password hash: %s", raw)
	}
}
