// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"github.com/taibuivan/kritika/internal/platform/apperr"
)

// # Authorization Engine
//
// Authorization is a set of pure guard functions over (actor claims, resource
// ownership). Read operations are open to everyone, so only writes are
// guarded here. The guards are evaluated BEFORE any object-level lookup:
// an anonymous writer always sees 401, an authenticated writer lacking
// rights always sees 403, never 404.

// CanWriteCatalog guards create/update/delete on catalog resources
// (categories, genres, titles). Only admins may write.
func CanWriteCatalog(actor *AuthClaims) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if UserRole(actor.Role) != RoleAdmin {
		return apperr.Forbidden("Only administrators may modify the catalog")
	}
	return nil
}

// CanCreateContribution guards creation of reviews and comments.
// Any authenticated user may contribute.
func CanCreateContribution(actor *AuthClaims) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}

// CanModifyContribution guards update/delete on an existing review or
// comment. Moderators and admins bypass the ownership check; everyone else
// must be the author.
func CanModifyContribution(actor *AuthClaims, authorID string) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if UserRole(actor.Role).AtLeast(RoleModerator) {
		return nil
	}
	if actor.UserID != authorID {
		return apperr.Forbidden("Only the author or a moderator may modify this resource")
	}
	return nil
}

// CanManageUsers guards the admin user-management surface (/users).
// The self-record path (/users/me) is guarded by [CanAccessSelf] instead.
func CanManageUsers(actor *AuthClaims) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if UserRole(actor.Role) != RoleAdmin {
		return apperr.Forbidden("Only administrators may manage users")
	}
	return nil
}

// CanAccessSelf guards the /users/me endpoint. Any authenticated actor may
// read and update their own record; the role field stays immutable there.
func CanAccessSelf(actor *AuthClaims) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}
