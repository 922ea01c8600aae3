package api

import (
	"context"
	"fmt"

	"github.com/vitaltrack/vitaltrack/client/internal/types"
)

// Login exchanges credentials for a token and stores it.
func Login(ctx context.Context, r types.Requester, tokens types.TokenStore, req types.LoginRequest) (*types.AuthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateLogin(req); err != nil {
		return nil, err
	}
	var resp types.AuthResponse
	if err := r.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := storeToken(tokens, resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and stores the returned token.
func Register(ctx context.Context, r types.Requester, tokens types.TokenStore, req types.RegisterRequest) (*types.AuthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateRegister(req); err != nil {
		return nil, err
	}
	var resp types.AuthResponse
	if err := r.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := storeToken(tokens, resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout forgets the stored token. The backend keeps no session state.
func Logout(tokens types.TokenStore) error {
	if tokens == nil {
		return nil
	}
	if err := tokens.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func storeToken(tokens types.TokenStore, token string) error {
	if token == "" {
		return fmt.Errorf("auth response carried no token")
	}
	if tokens == nil {
		return nil
	}
	if err := tokens.SetToken(token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}
