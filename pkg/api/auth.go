package api

import (
	"context"
	"fmt"

	"github.com/hindiconfession/cli/pkg/logger"
)

// Login authenticates a user and returns the session token
func (a *API) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	logger.Debug("Logging in", "username", username)

	var response LoginResponse
	resp, err := a.request(ctx).
		SetBody(LoginRequest{Username: username, Password: password}).
		SetResult(&response).
		Post("/auth/login")
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if response.Token == "" {
		return nil, fmt.Errorf("login failed: no token in response")
	}

	return &response, nil
}

// AdminLogin authenticates a moderator
func (a *API) AdminLogin(ctx context.Context, username, password string) (*AdminLoginResponse, error) {
	logger.Debug("Admin login", "username", username)

	var response AdminLoginResponse
	resp, err := a.request(ctx).
		SetBody(LoginRequest{Username: username, Password: password}).
		SetResult(&response).
		Post("/admin/auth/login")
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("admin login failed: %w", err)
	}
	if response.Token == "" {
		return nil, fmt.Errorf("admin login failed: no token in response")
	}

	return &response, nil
}
