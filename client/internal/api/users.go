package api

import (
	"context"

	"github.com/vitaltrack/vitaltrack/client/internal/types"
)

// GetProfile retrieves the authenticated user.
func GetProfile(ctx context.Context, r types.Requester, tokens types.TokenStore) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user types.User
	if err := r.Get(ctx, "/users/me", &user); err != nil {
		return nil, authFailure(tokens, "get profile", err)
	}
	return &user, nil
}

// UpdateProfile changes the authenticated user's profile.
func UpdateProfile(ctx context.Context, r types.Requester, tokens types.TokenStore, req types.UpdateProfileRequest) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateDate(req.DateOfBirth, "date_of_birth"); err != nil {
		return nil, err
	}
	var user types.User
	if err := r.Put(ctx, "/users/me", req, &user); err != nil {
		return nil, authFailure(tokens, "update profile", err)
	}
	return &user, nil
}
