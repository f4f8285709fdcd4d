package utils

import (
	"context"

	"salty-fish/internal/data/entity"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserKey     contextKey = "user"
	DeviceIDKey contextKey = "device_id"
)

// SetIdentityContext attaches the authenticated user and the device id
func SetIdentityContext(ctx context.Context, user *entity.User, deviceID string) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	ctx = context.WithValue(ctx, DeviceIDKey, deviceID)
	return ctx
}

func GetUserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(UserKey).(*entity.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}

func GetRoleFromContext(ctx context.Context) (entity.UserRole, bool) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return "", false
	}
	return user.Role, true
}

// GetDeviceIDFromContext mendapatkan device id dari context
func GetDeviceIDFromContext(ctx context.Context) (string, bool) {
	deviceID, ok := ctx.Value(DeviceIDKey).(string)
	return deviceID, ok && deviceID != ""
}
