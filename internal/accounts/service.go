// Package accounts manages users, permissions and the login check.
// Credentials are stored and compared in plaintext, matching the stored
// user documents of the original deployment.
package accounts

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/platform/httpx"
	"github.com/martpos/martpos/internal/store"
)

var (
	// ErrUsernameRequired rejects users without a username.
	ErrUsernameRequired = fmt.Errorf("%w: username required", httpx.ErrValidation)
	// ErrPasswordRequired rejects users without a password.
	ErrPasswordRequired = fmt.Errorf("%w: password required", httpx.ErrValidation)
	// ErrUserNotFound signals an unknown user id.
	ErrUserNotFound = fmt.Errorf("%w: user", httpx.ErrNotFound)
	// ErrAdminImmutable guards the primordial admin and ADMIN-role permission edits.
	ErrAdminImmutable = fmt.Errorf("%w: admin account cannot be modified this way", httpx.ErrForbidden)
	// ErrBadCredentials is the single answer to any failed login.
	ErrBadCredentials = fmt.Errorf("%w: invalid username or password", httpx.ErrUnauthorized)
	// ErrBadPermission rejects unknown permission names.
	ErrBadPermission = fmt.Errorf("%w: unknown permission", httpx.ErrValidation)
)

// Persistence is the fire-and-forget remote write port.
type Persistence interface {
	Put(collection, id string, doc any)
	Remove(collection, id string)
}

// Service coordinates user mutations against the reconciliation store.
type Service struct {
	store   *store.Store
	persist Persistence
	newID   func() string
}

// NewService builds Service.
func NewService(st *store.Store, persist Persistence) *Service {
	return &Service{store: st, persist: persist, newID: uuid.NewString}
}

// List returns all users with passwords blanked.
func (s *Service) List() []domain.User {
	users := s.store.Users.Get()
	for i := range users {
		users[i].Password = ""
	}
	return users
}

// Create appends a STAFF user holding only the dashboard permission.
func (s *Service) Create(username, password string) (domain.User, error) {
	if username == "" {
		return domain.User{}, ErrUsernameRequired
	}
	if password == "" {
		return domain.User{}, ErrPasswordRequired
	}

	user := domain.User{
		ID:          s.newID(),
		Username:    username,
		Password:    password,
		Role:        domain.RoleStaff,
		Permissions: []domain.Permission{domain.PermissionDashboard},
	}
	s.store.Users.Replace(append(s.store.Users.Get(), user))
	s.persist.Put(docstore.CollectionUsers, user.ID, user)

	user.Password = ""
	return user, nil
}

// TogglePermission adds the permission when absent, removes it when
// present. ADMIN-role users are rejected: their permission list is implied
// by the role and never edited.
func (s *Service) TogglePermission(id string, perm domain.Permission) (domain.User, error) {
	if !validPermission(perm) {
		return domain.User{}, ErrBadPermission
	}

	users := s.store.Users.Get()
	for i, u := range users {
		if u.ID != id {
			continue
		}
		if u.Role == domain.RoleAdmin {
			return domain.User{}, ErrAdminImmutable
		}

		kept := make([]domain.Permission, 0, len(u.Permissions)+1)
		removed := false
		for _, p := range u.Permissions {
			if p == perm {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		if !removed {
			kept = append(kept, perm)
		}
		u.Permissions = kept
		users[i] = u
		s.store.Users.Replace(users)
		s.persist.Put(docstore.CollectionUsers, u.ID, u)

		u.Password = ""
		return u, nil
	}
	return domain.User{}, ErrUserNotFound
}

// SetPassword replaces the stored plaintext password.
func (s *Service) SetPassword(id, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	users := s.store.Users.Get()
	for i, u := range users {
		if u.ID != id {
			continue
		}
		u.Password = password
		users[i] = u
		s.store.Users.Replace(users)
		s.persist.Put(docstore.CollectionUsers, u.ID, u)
		return nil
	}
	return ErrUserNotFound
}

// Delete removes the user. The primordial admin (id "1") is always
// rejected and the collection is left untouched.
func (s *Service) Delete(id string) error {
	if id == domain.AdminUserID {
		return ErrAdminImmutable
	}
	users := s.store.Users.Get()
	kept := users[:0]
	found := false
	for _, u := range users {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return ErrUserNotFound
	}
	s.store.Users.Replace(kept)
	s.persist.Remove(docstore.CollectionUsers, id)
	return nil
}

// Authenticate compares the credentials against the users collection in
// plaintext. While the collection is still empty (first boot, before the
// seed snapshot lands) the built-in admin/admin pair is accepted.
func (s *Service) Authenticate(username, password string) (domain.User, error) {
	users := s.store.Users.Get()
	if len(users) == 0 {
		if username == "admin" && password == "admin" {
			admin := domain.DefaultAdmin()
			admin.Password = ""
			return admin, nil
		}
		return domain.User{}, ErrBadCredentials
	}
	for _, u := range users {
		if u.Username == username && u.Password == password {
			u.Password = ""
			return u, nil
		}
	}
	return domain.User{}, ErrBadCredentials
}

func validPermission(perm domain.Permission) bool {
	for _, p := range domain.AllPermissions() {
		if p == perm {
			return true
		}
	}
	return false
}
