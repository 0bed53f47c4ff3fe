package assignment

import (
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/user"
)

var (
	NowFunc = time.Now  // mockable
	NewID   = newTimeID // mockable

	// errors
	ErrNotFound    = errors.New("assignment not found")
	ErrNotAssigned = errors.New("assignment is not assigned to this student")

	unknownStudentText = "unknown student: "
)

type (
	// Repository persists the assignment Dataset as one document.
	Repository interface {
		LoadAssignmentData() (Dataset, error)
		SaveAssignmentData(data Dataset) error
	}

	// Directory lists the registered students.
	Directory interface {
		QueryStudents() ([]user.User, error)
	}

	Service struct {
		repo    Repository
		users   Directory
		mailSvc core.EmailService
		logger  core.Logger
		mu      sync.Mutex // serializes load-modify-save cycles
	}
)

// NewService returns an assignment Service. mailSvc may be nil to disable notifications.
func NewService(repo Repository, users Directory, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

// newTimeID returns "a" followed by a time-based (version 1) UUID.
func newTimeID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		return "a" + uuid.New().String()
	}
	return "a" + id.String()
}

func (svc *Service) load() (Dataset, error) {
	ds, err := svc.repo.LoadAssignmentData()
	if err != nil {
		return Dataset{}, errors.Wrap(err, "loading assignment data")
	}
	return ds, nil
}

func (svc *Service) save(ds Dataset) error {
	return errors.Wrap(svc.repo.SaveAssignmentData(ds), "saving assignment data")
}

func (svc *Service) Query() ([]Assignment, error) {
	ds, err := svc.load()
	if err != nil {
		return nil, err
	}
	return ds.Assignments, nil
}

// QueryAssignedTo returns the assignments that include studentID.
func (svc *Service) QueryAssignedTo(studentID string) ([]Assignment, error) {
	ds, err := svc.load()
	if err != nil {
		return nil, err
	}
	assigned := make([]Assignment, 0, len(ds.Assignments))
	for _, a := range ds.Assignments {
		if a.IsAssignedTo(studentID) {
			assigned = append(assigned, a)
		}
	}
	return assigned, nil
}

func (svc *Service) GetByID(id string) (Assignment, error) {
	ds, err := svc.load()
	if err != nil {
		return Assignment{}, err
	}
	if i := ds.find(id); i >= 0 {
		return ds.Assignments[i], nil
	}
	return Assignment{}, ErrNotFound
}

// QueryStudents lists who can be assigned work: registered students first, then seed students.
func (svc *Service) QueryStudents() ([]Student, error) {
	ds, err := svc.load()
	if err != nil {
		return nil, err
	}
	return svc.students(ds)
}

func (svc *Service) students(ds Dataset) ([]Student, error) {
	users, err := svc.users.QueryStudents()
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]Student, 0, len(users)+len(ds.Students))
	seen := make(map[string]bool, cap(students))
	for _, usr := range users {
		students = append(students, Student{ID: usr.ID, Name: usr.Name})
		seen[usr.ID] = true
	}
	for _, st := range ds.Students {
		if !seen[st.ID] {
			students = append(students, st)
			seen[st.ID] = true
		}
	}
	return students, nil
}

// Create validates na and appends a new Assignment with no submissions.
// Assignees that are registered users get notified by email.
func (svc *Service) Create(na NewAssignment) (Assignment, error) {
	if err := na.Validate(); err != nil {
		return Assignment{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	ds, err := svc.load()
	if err != nil {
		return Assignment{}, err
	}
	students, err := svc.students(ds)
	if err != nil {
		return Assignment{}, err
	}
	known := make(map[string]bool, len(students))
	for _, st := range students {
		known[st.ID] = true
	}
	for _, id := range na.AssignedTo {
		if !known[id] {
			return Assignment{}, core.NewValidationError(nil, core.FieldError{Field: "assignedTo", Error: unknownStudentText + id})
		}
	}

	a := Assignment{
		ID:          NewID(),
		Title:       na.Title,
		DueDate:     na.DueDate,
		DriveLink:   na.DriveLink,
		AssignedTo:  na.AssignedTo,
		Submissions: map[string]Submission{},
	}
	ds.Assignments = append(ds.Assignments, a)
	if err := svc.save(ds); err != nil {
		return Assignment{}, err
	}

	svc.notifyAssignees(a)
	return a, nil
}

// ToggleSubmission marks studentID as submitted, or revokes an existing submission.
func (svc *Service) ToggleSubmission(assignmentID, studentID string) (Assignment, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	ds, err := svc.load()
	if err != nil {
		return Assignment{}, err
	}
	i := ds.find(assignmentID)
	if i < 0 {
		return Assignment{}, ErrNotFound
	}
	a := &ds.Assignments[i]
	if !a.IsAssignedTo(studentID) {
		return Assignment{}, ErrNotAssigned
	}

	if a.HasSubmitted(studentID) {
		delete(a.Submissions, studentID)
	} else {
		a.Submissions[studentID] = newSubmission()
	}
	if err := svc.save(ds); err != nil {
		return Assignment{}, err
	}
	return *a, nil
}

// ConfirmSubmission records studentID as submitted. There is no way back for the student.
// Nothing is written when the assignment is unknown or not assigned to studentID.
func (svc *Service) ConfirmSubmission(assignmentID, studentID string) (Assignment, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	ds, err := svc.load()
	if err != nil {
		return Assignment{}, err
	}
	i := ds.find(assignmentID)
	if i < 0 {
		return Assignment{}, ErrNotFound
	}
	a := &ds.Assignments[i]
	if !a.IsAssignedTo(studentID) {
		return Assignment{}, ErrNotAssigned
	}

	a.Submissions[studentID] = newSubmission()
	if err := svc.save(ds); err != nil {
		return Assignment{}, err
	}
	return *a, nil
}

func newSubmission() Submission {
	return Submission{Status: StatusSubmitted, Time: NowFunc().Format(TimeLayout)}
}

type newAssignmentMailData struct {
	StudentName string
	Title       string
	DueDate     string
	DriveLink   string
}

func (svc *Service) notifyAssignees(a Assignment) {
	if svc.mailSvc == nil {
		return
	}
	users, err := svc.users.QueryStudents()
	if err != nil {
		svc.logger.Warn("assignees not notified", errors.Wrap(err, "querying students"), map[string]interface{}{"assignment": a.ID})
		return
	}

	messages := make([]*core.EmailMessage, 0, len(a.AssignedTo))
	for _, usr := range users {
		if !a.IsAssignedTo(usr.ID) || usr.Email == "" {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      "New assignment: " + a.Title,
			TemplateName: "new_assignment",
			TemplateData: newAssignmentMailData{
				StudentName: usr.Name,
				Title:       a.Title,
				DueDate:     a.DueDate,
				DriveLink:   a.DriveLink,
			},
		})
	}
	if len(messages) > 0 {
		svc.mailSvc.SendMessages(messages...)
	}
}
