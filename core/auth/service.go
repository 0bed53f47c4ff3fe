// Package auth binds the user directory to the session of one tab.
package auth

import (
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core/session"
	"github.com/joineazy/tracker/core/user"
)

type Service struct {
	users *user.Service
	sess  *session.Holder
}

// NewService is cheap; build one per tab (or per request) around its session.Holder.
func NewService(users *user.Service, sess *session.Holder) *Service {
	return &Service{users: users, sess: sess}
}

// Register adds a User to the directory without logging them in.
func (svc *Service) Register(nu user.NewUser) (user.User, error) {
	return svc.users.Register(nu)
}

// Login checks the credentials and makes the matching User the session identity.
// Any mismatch, including incomplete credentials, is reported as user.ErrInvalidCredentials.
func (svc *Service) Login(creds user.Credentials) (user.User, error) {
	if err := creds.Validate(); err != nil {
		return user.User{}, user.ErrInvalidCredentials
	}
	usr, err := svc.users.Authenticate(creds)
	if err != nil {
		return user.User{}, err
	}
	if err := svc.sess.Set(session.Identity{UserID: usr.ID, Role: usr.Role}); err != nil {
		return user.User{}, errors.Wrap(err, "storing session")
	}
	return usr, nil
}

func (svc *Service) Logout() error {
	return svc.sess.Clear()
}

// Current returns the logged in User, read fresh from the directory.
// A session pointing to an unknown User (or a stale role) is cleared.
func (svc *Service) Current() (user.User, error) {
	ident, err := svc.sess.Get()
	if err != nil {
		return user.User{}, err
	}

	usr, err := svc.users.GetByID(ident.UserID)
	if err == nil && usr.Role == ident.Role {
		return usr, nil
	}
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return user.User{}, errors.Wrap(err, "finding session user")
	}
	if err := svc.sess.Clear(); err != nil {
		return user.User{}, err
	}
	return user.User{}, session.ErrNoSession
}
