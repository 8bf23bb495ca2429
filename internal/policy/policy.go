package policy

import (
	"betaware/internal/model"
	"betaware/internal/token"
)

// CanAct decides whether the authenticated identity may act on a resource
// owned by ownerID. Admins may act on anything; everyone else only on
// their own resources.
func CanAct(claims *token.Claims, ownerID int64) bool {
	if claims == nil {
		return false
	}
	if claims.Role == model.RoleAdmin {
		return true
	}
	return claims.UserID == ownerID
}
