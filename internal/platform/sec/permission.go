// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Permission Predicates

// IsAdmin reports whether the caller may manage users, taxonomies and titles.
// A superuser is an admin regardless of the stored role.
func IsAdmin(claims *AuthClaims) bool {
	if claims == nil {
		return false
	}
	return claims.Superuser || UserRole(claims.Role).AtLeast(RoleAdmin)
}

// IsPrivileged reports whether the caller may moderate other people's content.
func IsPrivileged(claims *AuthClaims) bool {
	if claims == nil {
		return false
	}
	return claims.Superuser || UserRole(claims.Role).AtLeast(RoleModerator)
}

// CanModify reports whether the caller may change or delete an object written by authorID.
func CanModify(claims *AuthClaims, authorID int64) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == authorID || IsPrivileged(claims)
}
