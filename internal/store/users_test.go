package store

import (
	"context"
	"testing"

	"github.com/mlakar/hlev/internal/db"
	"github.com/mlakar/hlev/internal/model"
)

func TestUserCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "janez", "hash123", model.RoleManager)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "janez" || user.Role != model.RoleManager {
		t.Errorf("unexpected user: %+v", user)
	}

	byName, _ := GetUserByUsername(ctx, database, "janez")
	if byName == nil || byName.ID != user.ID {
		t.Errorf("expected to find user by username, got %+v", byName)
	}

	if err := UpdateUserRole(ctx, database, user.ID, model.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	updated, _ := GetUser(ctx, database, user.ID)
	if updated.Role != model.RoleAdmin {
		t.Errorf("expected admin role, got %s", updated.Role)
	}

	if err := DeleteUser(ctx, database, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("expected no users after deletion, got %d", len(users))
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, "janez", "hash", model.RoleUser); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := CreateUser(ctx, database, "janez", "hash", model.RoleUser); err == nil {
		t.Error("expected error for duplicate username")
	}
}

func TestUsernameReusableAfterDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "janez", "hash", model.RoleUser)
	DeleteUser(ctx, database, user.ID)

	if _, err := CreateUser(ctx, database, "janez", "hash", model.RoleUser); err != nil {
		t.Errorf("expected username to be reusable after deletion: %v", err)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "janez", "old", model.RoleUser)

	if err := UpdateUserPassword(ctx, database, user.ID, "new"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	updated, _ := GetUser(ctx, database, user.ID)
	if updated.PasswordHash != "new" {
		t.Errorf("expected updated password hash, got %q", updated.PasswordHash)
	}
}
