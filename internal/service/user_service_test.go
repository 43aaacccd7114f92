package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/db"
)

func strPtr(v string) *string { return &v }

func sameUser(a, b *db.User) bool {
	return a.ID == b.ID &&
		a.Username == b.Username &&
		a.Email == b.Email &&
		a.Password == b.Password &&
		reflect.DeepEqual(a.Bio, b.Bio) &&
		reflect.DeepEqual(a.Image, b.Image) &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

func TestUserServiceRegisterAndLogin(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := svc.register(t, "alice")
	if user.ID == 0 || user.Password == "alice-password" {
		t.Fatalf("expected stored id and hashed password, got %+v", user)
	}

	loggedIn, err := svc.users.Login(ctx, "alice@example.com", "alice-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, loggedIn.ID)
	}

	_, err = svc.users.Login(ctx, "alice@example.com", "wrong")
	wantKind(t, err, apperr.KindConflict)
	_, err = svc.users.Login(ctx, "nobody@example.com", "alice-password")
	wantKind(t, err, apperr.KindConflict)
}

func TestUserServiceRegisterDuplicateEmail(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	first := svc.register(t, "alice")

	_, err := svc.users.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "pw"})
	wantKind(t, err, apperr.KindConflict)
	_, err = svc.users.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "pw"})
	wantKind(t, err, apperr.KindConflict)

	stored, err := svc.users.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Username != "alice" || stored.Password != first.Password {
		t.Fatalf("first registration changed: %+v", stored)
	}

	var count int64
	if err := svc.db.Model(&db.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
}

func TestUserServiceRegisterRequiresFields(t *testing.T) {
	svc := newTestServices(t)
	_, err := svc.users.Register(context.Background(), RegisterInput{Username: " ", Email: "a@example.com", Password: "pw"})
	wantKind(t, err, apperr.KindBadRequest)
}

func TestUserServiceUpdateWithoutFieldsIsNoop(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	user := svc.register(t, "alice")

	before, err := svc.users.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	after, err := svc.users.Update(ctx, user.ID, UserUpdate{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !sameUser(before, after) {
		t.Fatalf("expected identical record\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestUserServiceUpdateSparseFields(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	user := svc.register(t, "alice")

	updated, err := svc.users.Update(ctx, user.ID, UserUpdate{Bio: strPtr("hello; DROP TABLE users"), Image: strPtr("https://example.com/a.png")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio == nil || *updated.Bio != "hello; DROP TABLE users" {
		t.Fatalf("unexpected bio %v", updated.Bio)
	}
	if updated.Email != "alice@example.com" || updated.Username != "alice" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	if _, err := svc.users.Update(ctx, user.ID, UserUpdate{Password: strPtr("new-secret")}); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, err := svc.users.Login(ctx, "alice@example.com", "new-secret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUserServiceUpdateRejectsTakenUsername(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	svc.register(t, "alice")
	bob := svc.register(t, "bob")

	_, err := svc.users.Update(ctx, bob.ID, UserUpdate{Username: strPtr("alice")})
	wantKind(t, err, apperr.KindConflict)

	_, err = svc.users.Update(ctx, bob.ID, UserUpdate{Email: strPtr("")})
	wantKind(t, err, apperr.KindBadRequest)

	_, err = svc.users.Get(ctx, 999)
	wantKind(t, err, apperr.KindNotFound)
}
