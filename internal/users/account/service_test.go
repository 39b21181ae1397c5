// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/dberr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/users/account"
	"github.com/taibuivan/kritika/internal/users/auth"
	"github.com/taibuivan/kritika/pkg/pointer"
)

// fakeRepository is an in-memory account.Repository.
type fakeRepository struct {
	byID map[string]*auth.User
}

func newFakeRepository(users ...*auth.User) *fakeRepository {
	repo := &fakeRepository{byID: make(map[string]*auth.User)}
	for _, user := range users {
		repo.byID[user.ID] = user
	}
	return repo
}

func (repo *fakeRepository) List(_ context.Context, _ string, _, _ int) ([]*auth.User, int, error) {
	var out []*auth.User
	for _, user := range repo.byID {
		out = append(out, user)
	}
	return out, len(out), nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repo.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (repo *fakeRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.byID {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeRepository) Create(_ context.Context, user *auth.User) error {
	repo.byID[user.ID] = user
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.byID[user.ID]; !ok {
		return dberr.ErrNotFound
	}
	repo.byID[user.ID] = user
	return nil
}

func (repo *fakeRepository) DeleteByUsername(_ context.Context, username string) error {
	for id, user := range repo.byID {
		if user.Username == username {
			delete(repo.byID, id)
			return nil
		}
	}
	return apperr.NotFound("User")
}

func newTestService(repo *fakeRepository) *account.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(repo, logger)
}

func claimsFor(user *auth.User) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: user.ID, Username: user.Username, Role: string(user.Role)}
}

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "adm-1", Username: "admin", Role: string(sec.RoleAdmin)}
}

func seedUser(role sec.UserRole) *auth.User {
	return &auth.User{
		ID:       "usr-" + string(role),
		Username: "reader-" + string(role),
		Email:    string(role) + "@example.com",
		Role:     role,
	}
}

func httpStatusOf(t *testing.T, err error) int {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.HTTPStatus
}

// # Administration

/*
TestService_ListUsers_AdminOnly verifies the directory is closed to everyone
below admin.
*/
func TestService_ListUsers_AdminOnly(t *testing.T) {
	repo := newFakeRepository(seedUser(sec.RoleUser))
	service := newTestService(repo)

	_, _, err := service.ListUsers(context.Background(), nil, "", 10, 0)
	assert.Equal(t, http.StatusUnauthorized, httpStatusOf(t, err))

	_, _, err = service.ListUsers(context.Background(), claimsFor(seedUser(sec.RoleModerator)), "", 10, 0)
	assert.Equal(t, http.StatusForbidden, httpStatusOf(t, err))

	users, total, err := service.ListUsers(context.Background(), adminClaims(), "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, users, 1)
}

/*
TestService_CreateUser verifies direct admin creation, including the default
role and server-side ID assignment.
*/
func TestService_CreateUser(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	user := &auth.User{Username: "reader", Email: "reader@example.com"}
	require.NoError(t, service.CreateUser(context.Background(), adminClaims(), user))

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
}

/*
TestService_CreateUser_UnknownRole verifies the closed role set.
*/
func TestService_CreateUser_UnknownRole(t *testing.T) {
	service := newTestService(newFakeRepository())

	user := &auth.User{Username: "reader", Email: "reader@example.com", Role: sec.UserRole("owner")}
	err := service.CreateUser(context.Background(), adminClaims(), user)
	assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))
}

/*
TestService_UpdateUser_RoleChange verifies that an administrator can promote
a user through the management surface.
*/
func TestService_UpdateUser_RoleChange(t *testing.T) {
	target := seedUser(sec.RoleUser)
	repo := newFakeRepository(target)
	service := newTestService(repo)

	updated, err := service.UpdateUser(context.Background(), adminClaims(), target.Username, account.UpdateInput{
		Role: pointer.To("moderator"),
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, updated.Role)
}

/*
TestService_UpdateUser_UnknownRole verifies role values outside the closed
set are rejected even for admins.
*/
func TestService_UpdateUser_UnknownRole(t *testing.T) {
	target := seedUser(sec.RoleUser)
	service := newTestService(newFakeRepository(target))

	_, err := service.UpdateUser(context.Background(), adminClaims(), target.Username, account.UpdateInput{
		Role: pointer.To("superuser"),
	})
	assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))
}

/*
TestService_DeleteUser verifies admin deletion and the 404 on re-delete.
*/
func TestService_DeleteUser(t *testing.T) {
	target := seedUser(sec.RoleUser)
	repo := newFakeRepository(target)
	service := newTestService(repo)

	require.NoError(t, service.DeleteUser(context.Background(), adminClaims(), target.Username))
	assert.Empty(t, repo.byID)

	err := service.DeleteUser(context.Background(), adminClaims(), target.Username)
	assert.Equal(t, http.StatusNotFound, httpStatusOf(t, err))
}

// # Self Service

/*
TestService_GetSelf verifies the authenticated user reads their own record.
*/
func TestService_GetSelf(t *testing.T) {
	me := seedUser(sec.RoleUser)
	service := newTestService(newFakeRepository(me))

	got, err := service.GetSelf(context.Background(), claimsFor(me))
	require.NoError(t, err)
	assert.Equal(t, me.Username, got.Username)

	_, err = service.GetSelf(context.Background(), nil)
	assert.Equal(t, http.StatusUnauthorized, httpStatusOf(t, err))
}

/*
TestService_UpdateSelf_IgnoresRole verifies the privilege-escalation guard:
a role field in a self-service update is silently dropped while the rest of
the patch applies.
*/
func TestService_UpdateSelf_IgnoresRole(t *testing.T) {
	me := seedUser(sec.RoleUser)
	repo := newFakeRepository(me)
	service := newTestService(repo)

	updated, err := service.UpdateSelf(context.Background(), claimsFor(me), account.UpdateInput{
		Bio:  pointer.To("I review things."),
		Role: pointer.To("admin"),
	})
	require.NoError(t, err)

	assert.Equal(t, "I review things.", updated.Bio)
	assert.Equal(t, sec.RoleUser, updated.Role)
	assert.Equal(t, sec.RoleUser, repo.byID[me.ID].Role)
}

/*
TestService_UpdateSelf_Validation verifies the merged entity is what gets
validated on self-service updates.
*/
func TestService_UpdateSelf_Validation(t *testing.T) {
	me := seedUser(sec.RoleUser)
	service := newTestService(newFakeRepository(me))

	_, err := service.UpdateSelf(context.Background(), claimsFor(me), account.UpdateInput{
		Email: pointer.To("not-an-email"),
	})
	assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))

	_, err = service.UpdateSelf(context.Background(), claimsFor(me), account.UpdateInput{
		Username: pointer.To("me"),
	})
	assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))
}
