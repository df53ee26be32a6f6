package service

import (
	"context"
	"strings"

	"github.com/hindiconfession/cli/pkg/adminsession"
	clierrors "github.com/hindiconfession/cli/pkg/errors"
	"github.com/hindiconfession/cli/pkg/formatter"
	"github.com/hindiconfession/cli/pkg/output"
)

// AdminService manages the administrative session. It never touches the
// end-user session.
type AdminService struct {
	deps *Deps
}

// NewAdminService creates a new admin service
func NewAdminService(deps *Deps) *AdminService {
	return &AdminService{deps: deps}
}

// Login authenticates an admin or subadmin account
func (as *AdminService) Login(ctx context.Context, username, password string) error {
	p := as.deps.prompter()
	var err error
	if username == "" {
		if username, err = p.String("Admin username: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = p.Password("Password: "); err != nil {
			return err
		}
	}
	if username == "" || password == "" {
		return clierrors.ValidationError("credentials", "username and password are required")
	}

	resp, err := as.deps.API.AdminLogin(ctx, username, password)
	if err != nil {
		return err
	}

	as.deps.Admin.Login(resp.Admin, resp.Token)
	formatter.PrintSuccess("✓ Logged in to the admin panel as %s (%s)", resp.Admin.Username, resp.Admin.Role)
	return nil
}

// Logout clears the admin session
func (as *AdminService) Logout() error {
	if !as.deps.Admin.IsAuthenticated() {
		formatter.PrintWarning("No admin session")
		return nil
	}
	as.deps.Admin.Logout()
	formatter.PrintSuccess("✓ Logged out of the admin panel")
	return nil
}

// Status prints the admin session and its permissions
func (as *AdminService) Status() error {
	admin := as.deps.Admin.Admin()
	if admin == nil || !as.deps.Admin.IsAuthenticated() {
		return output.PrintRecord("Admin session", []output.Field{{Key: "Logged in", Value: false}})
	}

	granted := []string{}
	for _, perm := range adminsession.AllPermissions {
		if as.deps.Admin.HasPermission(perm) {
			granted = append(granted, string(perm))
		}
	}
	return output.PrintRecord("Admin session", []output.Field{
		{Key: "Logged in", Value: true},
		{Key: "Username", Value: admin.Username},
		{Key: "Name", Value: admin.Name},
		{Key: "Role", Value: admin.Role},
		{Key: "Permissions", Value: strings.Join(granted, ", ")},
	})
}

// Check reports whether the admin session holds a permission. It fails
// when the permission is missing.
func (as *AdminService) Check(name string) error {
	perm, ok := adminsession.ParsePermission(name)
	if !ok {
		return clierrors.ValidationError("permission", "unknown permission "+name)
	}
	if !as.deps.Admin.IsAuthenticated() {
		return clierrors.AuthError("No admin session").
			WithSuggestion("Run 'confession-cli admin login' first.")
	}
	if !as.deps.Admin.HasPermission(perm) {
		return clierrors.ForbiddenError().WithSuggestion("Ask an admin to grant " + string(perm) + ".")
	}
	formatter.PrintSuccess("✓ %s granted", perm)
	return nil
}
