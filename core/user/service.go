package user

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core"
)

var (
	NewID = newTimeID // mockable

	// errors
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	// Repository persists the user directory as one document.
	Repository interface {
		LoadUserDirectory() ([]User, error)
		SaveUserDirectory(users []User) error
	}

	Service struct {
		repo Repository
		mu   sync.Mutex // serializes load-modify-save cycles
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// newTimeID returns a time-based (version 1) UUID.
func newTimeID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func checkUniqueness(users []User, email string) error {
	for _, usr := range users {
		if usr.Email == email {
			return core.NewValidationError(ErrDuplicateUser, core.FieldError{Field: "email", Error: ErrDuplicateUser.Error()})
		}
	}
	return nil
}

// Register validates nu and appends a new User to the directory.
// The new User is not logged in.
func (svc *Service) Register(nu NewUser) (User, error) {
	if err := nu.Validate(); err != nil {
		return User{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	users, err := svc.repo.LoadUserDirectory()
	if err != nil {
		return User{}, errors.Wrap(err, "loading user directory")
	}
	if err := checkUniqueness(users, nu.Email); err != nil {
		return User{}, err
	}

	usr := User{
		ID:       NewID(),
		Name:     nu.Name,
		Email:    nu.Email,
		Password: nu.Password,
		Role:     nu.Role,
	}
	if err := svc.repo.SaveUserDirectory(append(users, usr)); err != nil {
		return User{}, errors.Wrap(err, "saving user directory")
	}
	return usr, nil
}

// Authenticate returns the single User matching email, password and role exactly.
func (svc *Service) Authenticate(creds Credentials) (User, error) {
	users, err := svc.QueryAll()
	if err != nil {
		return User{}, err
	}

	var found []User
	for _, usr := range users {
		if usr.Email == creds.Email && usr.Password == creds.Password && usr.Role == creds.Role {
			found = append(found, usr)
		}
	}
	if len(found) != 1 {
		return User{}, ErrInvalidCredentials
	}
	return found[0], nil
}

func (svc *Service) QueryAll() ([]User, error) {
	users, err := svc.repo.LoadUserDirectory()
	if err != nil {
		return nil, errors.Wrap(err, "loading user directory")
	}
	return users, nil
}

// QueryStudents returns the Users that can be assigned work.
func (svc *Service) QueryStudents() ([]User, error) {
	users, err := svc.QueryAll()
	if err != nil {
		return nil, err
	}
	students := make([]User, 0, len(users))
	for _, usr := range users {
		if usr.IsStudent() {
			students = append(students, usr)
		}
	}
	return students, nil
}

func (svc *Service) GetByID(id string) (User, error) {
	users, err := svc.QueryAll()
	if err != nil {
		return User{}, err
	}
	for _, usr := range users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (svc *Service) GetByEmail(email string) (User, error) {
	users, err := svc.QueryAll()
	if err != nil {
		return User{}, err
	}
	email = core.CleanString(email)
	for _, usr := range users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}
