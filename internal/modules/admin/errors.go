package admin

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidStatus  = errors.New("status must be approved or rejected")
	ErrReasonRequired = errors.New("a rejection reason is required")
	ErrInvalidRole    = errors.New("invalid role")
	ErrSelfDemotion   = errors.New("admins cannot remove their own admin role")
	ErrLastAdmin      = errors.New("the last admin account cannot lose admin access")
	ErrSelfDeletion   = errors.New("admins cannot delete their own account")
)
