// Package adminsession holds the moderator session. It shares the
// persistence protocol of the user session but uses its own key and a
// role-based permission model.
package adminsession

import (
	"context"

	"github.com/hindiconfession/cli/pkg/persist"
	"github.com/hindiconfession/cli/pkg/storage"
)

// StorageKey is where the persisted admin projection lives.
const StorageKey = "hindi-confession-admin-auth"

// Role of an administrative account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSubadmin Role = "subadmin"
)

// Permission names a single capability flag.
type Permission string

const (
	PermManagePosts     Permission = "canManagePosts"
	PermManageUsers     Permission = "canManageUsers"
	PermManageReports   Permission = "canManageReports"
	PermManageSubAdmins Permission = "canManageSubAdmins"
	PermViewAnalytics   Permission = "canViewAnalytics"
)

// AllPermissions lists every known permission in display order.
var AllPermissions = []Permission{
	PermManagePosts,
	PermManageUsers,
	PermManageReports,
	PermManageSubAdmins,
	PermViewAnalytics,
}

// ParsePermission validates a permission name.
func ParsePermission(s string) (Permission, bool) {
	for _, p := range AllPermissions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Permissions are the per-flag grants of a subadmin.
type Permissions struct {
	CanManagePosts     bool `json:"canManagePosts,omitempty"`
	CanManageUsers     bool `json:"canManageUsers,omitempty"`
	CanManageReports   bool `json:"canManageReports,omitempty"`
	CanManageSubAdmins bool `json:"canManageSubAdmins,omitempty"`
	CanViewAnalytics   bool `json:"canViewAnalytics,omitempty"`
}

// Has reports whether flag p is set.
func (ps Permissions) Has(p Permission) bool {
	switch p {
	case PermManagePosts:
		return ps.CanManagePosts
	case PermManageUsers:
		return ps.CanManageUsers
	case PermManageReports:
		return ps.CanManageReports
	case PermManageSubAdmins:
		return ps.CanManageSubAdmins
	case PermViewAnalytics:
		return ps.CanViewAnalytics
	}
	return false
}

// AdminUser is an administrative account.
type AdminUser struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Name        string      `json:"name"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
}

// State is the in-memory admin session.
type State struct {
	Admin           *AdminUser
	Token           string
	IsAuthenticated bool
}

// Persisted is the projection written to storage.
type Persisted struct {
	Admin           *AdminUser `json:"admin"`
	Token           string     `json:"token"`
	IsAuthenticated bool       `json:"isAuthenticated"`
}

func project(s State) Persisted {
	return Persisted{Admin: cloneAdmin(s.Admin), Token: s.Token, IsAuthenticated: s.IsAuthenticated}
}

func merge(s State, p Persisted) State {
	s.Admin = p.Admin
	s.Token = p.Token
	s.IsAuthenticated = p.IsAuthenticated
	return s
}

// Store is the admin session container.
type Store struct {
	inner *persist.Store[State, Persisted]
}

// NewStore creates an empty, unhydrated admin session backed by st.
func NewStore(st storage.Storage) *Store {
	return &Store{inner: persist.New(StorageKey, State{}, st, project, merge)}
}

func (s *Store) Rehydrate(ctx context.Context)          { s.inner.Rehydrate(ctx) }
func (s *Store) Hydrated() bool                         { return s.inner.Hydrated() }
func (s *Store) SetHasHydrated(v bool)                  { s.inner.SetHydrated(v) }
func (s *Store) WaitHydrated(ctx context.Context) error { return s.inner.WaitHydrated(ctx) }

// Subscribe registers fn for every state change.
func (s *Store) Subscribe(fn func(State)) func() {
	return s.inner.Subscribe(fn)
}

// Token returns the admin bearer token.
func (s *Store) Token() string {
	return s.inner.Get().Token
}

// IsAuthenticated reports whether an admin is logged in.
func (s *Store) IsAuthenticated() bool {
	return s.inner.Get().IsAuthenticated
}

// Admin returns a copy of the logged-in admin, or nil.
func (s *Store) Admin() *AdminUser {
	return cloneAdmin(s.inner.Get().Admin)
}

// Login records an authenticated admin session.
func (s *Store) Login(admin AdminUser, token string) {
	s.inner.Update(func(st State) State {
		a := admin
		st.Admin = &a
		st.Token = token
		st.IsAuthenticated = true
		return st
	})
}

// Logout clears the admin session.
func (s *Store) Logout() {
	s.inner.Update(func(st State) State {
		return State{}
	})
}

// HasPermission reports whether the current admin may use p. The admin role
// holds every permission; a subadmin needs the individual flag.
func (s *Store) HasPermission(p Permission) bool {
	a := s.inner.Get().Admin
	if a == nil {
		return false
	}
	if a.Role == RoleAdmin {
		return true
	}
	return a.Permissions.Has(p)
}

func cloneAdmin(a *AdminUser) *AdminUser {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
