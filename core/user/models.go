package user

import (
	"github.com/joineazy/tracker/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var (
	AllRoles = []string{RoleStudent, RoleAdmin}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is a record of the user directory.
// Passwords are kept and compared in plaintext.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// Profile is what a User may show to the outside world.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwdminlen"`
	Role     string `json:"role" validate:"required,role"`
}

// Validate cleans and validates nu.
// Emails are matched exactly later on; only surrounding whitespace is dropped.
func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email)
	nu.Role = core.CleanString(nu.Role)
	return core.Validate.Struct(nu)
}

// Credentials are what a login attempt must match.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email)
	c.Role = core.CleanString(c.Role)
	return core.Validate.Struct(c)
}
