// Package authz is the ownership gate applied before every mutation of owned content.
package authz

import (
	"VideoTube.com/pkg/errno"
)

// CanMutate reports whether the acting identity owns the resource.
func CanMutate(actingUserId, ownerId int64) bool {
	return actingUserId > 0 && ownerId == actingUserId
}

// CheckOwner 调用前资源必须已确认存在, 先 NotFound 后 Permission
func CheckOwner(actingUserId, ownerId int64, resource string) error {
	if !CanMutate(actingUserId, ownerId) {
		return errno.PermissionErr.WithMessage("You are not the owner of this " + resource)
	}
	return nil
}
