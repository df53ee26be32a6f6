package service

import (
	"context"
	"fmt"

	"github.com/hindiconfession/cli/pkg/api"
	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/formatter"
	"github.com/hindiconfession/cli/pkg/logger"
	"github.com/hindiconfession/cli/pkg/output"
	"github.com/hindiconfession/cli/pkg/session"
)

// AuthService handles the user session
type AuthService struct {
	deps *Deps
}

// NewAuthService creates a new auth service
func NewAuthService(deps *Deps) *AuthService {
	return &AuthService{deps: deps}
}

// Login authenticates and stores the session. Missing credentials are
// prompted for. Any action deferred behind the login prompt runs afterwards.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	p := s.deps.prompter()

	if s.deps.Session.IsAuthenticated() && !s.deps.Session.ShowAuthPrompt() {
		u := s.deps.Session.User()
		formatter.PrintWarning("Already logged in as %s", u.Username)
		confirm, err := p.Confirm("Continue with new login?")
		if err != nil {
			return err
		}
		if !confirm {
			return nil
		}
	}

	var err error
	if username == "" {
		if username, err = p.String("Username: "); err != nil {
			return err
		}
	}
	if username == "" {
		return clierrors.ValidationError("username", "cannot be empty")
	}
	if password == "" {
		if password, err = p.Password("Password: "); err != nil {
			return err
		}
	}
	if password == "" {
		return clierrors.ValidationError("password", "cannot be empty")
	}

	formatter.PrintInfo("Authenticating...")
	resp, err := s.deps.API.Login(ctx, username, password)
	if err != nil {
		return err
	}

	s.deps.Session.Login(resp.User, resp.Token)
	formatter.PrintSuccess("✓ Logged in as %s", formatter.Bold.Sprint(resp.User.Username))

	if s.deps.Session.ExecutePendingAction() {
		logger.Debug("Replayed action deferred behind login")
	}
	s.deps.Session.CloseAuthPrompt()
	return nil
}

// Logout clears the session
func (s *AuthService) Logout() error {
	if !s.deps.Session.IsAuthenticated() {
		formatter.PrintWarning("Not logged in")
		return nil
	}

	s.deps.Session.Logout()
	formatter.PrintSuccess("✓ Logged out successfully")
	return nil
}

// Status prints the current session
func (s *AuthService) Status(ctx context.Context) error {
	snap := s.deps.Session.Snapshot()
	lang := s.deps.Locale.Current(ctx)

	if !snap.IsAuthenticated || snap.User == nil {
		return output.PrintRecord("Session", []output.Field{
			{Key: "Logged in", Value: false},
			{Key: "Language", Value: lang},
			{Key: "Age verified", Value: snap.AgeVerified},
		})
	}

	fields := []output.Field{
		{Key: "Logged in", Value: true},
		{Key: "Username", Value: snap.User.Username},
		{Key: "User ID", Value: snap.User.ID},
		{Key: "Language", Value: lang},
		{Key: "Theme", Value: snap.User.Theme},
		{Key: "Show NSFW", Value: snap.User.ShowNsfw},
		{Key: "Age verified", Value: snap.AgeVerified},
	}
	if snap.User.UsernameChangesLeft != nil {
		fields = append(fields, output.Field{Key: "Username changes left", Value: *snap.User.UsernameChangesLeft})
	}
	return output.PrintRecord("Session", fields)
}

// Gate runs action right away when logged in. Otherwise it defers action
// behind the login prompt, asks for credentials, and the action runs once
// the login succeeds. A stored token the backend no longer accepts is
// treated as logged out.
func (s *AuthService) Gate(ctx context.Context, action func() error) error {
	var expired *clierrors.CLIError
	if s.deps.Session.IsAuthenticated() {
		err := action()
		if !api.IsUnauthorized(err) {
			return err
		}
		logger.Warn("Stored session rejected, logging in again", "error", err)
		s.deps.Session.Logout()
		expired = clierrors.SessionExpiredError()
		formatter.PrintWarning(expired.Message)
	}

	var actionErr error
	ran := false
	s.deps.Session.OpenAuthPrompt(func() {
		ran = true
		actionErr = action()
	})
	formatter.PrintWarning("You need to log in first")

	if err := s.Login(ctx, "", ""); err != nil {
		s.deps.Session.CloseAuthPrompt()
		if expired != nil {
			expired.Cause = err
			return expired
		}
		return err
	}
	if !ran {
		s.deps.Session.CloseAuthPrompt()
		return clierrors.AuthError("Login was not completed")
	}
	return actionErr
}

// UpdatePreferences merges preference changes into the logged-in user
func (s *AuthService) UpdatePreferences(update session.UserUpdate) error {
	if !s.deps.Session.IsAuthenticated() {
		return clierrors.AuthError("Not logged in")
	}
	s.deps.Session.UpdateUser(update)
	formatter.PrintSuccess("✓ Preferences updated")
	return nil
}

// VerifyAge records that the user confirmed they are an adult
func (s *AuthService) VerifyAge(confirmed bool) error {
	if !confirmed {
		ok, err := s.deps.prompter().Confirm("Are you 18 years or older?")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("age verification declined")
		}
	}
	s.deps.Session.VerifyAge()
	formatter.PrintSuccess("✓ Age verified")
	return nil
}

// RequireAge fails unless the age gate has been passed
func (s *AuthService) RequireAge() error {
	if !s.deps.Session.Snapshot().AgeVerified {
		return clierrors.AgeGateError()
	}
	return nil
}
