package assignment_test

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/assignment"
	"github.com/joineazy/tracker/core/user"
	emailsvc "github.com/joineazy/tracker/services/email"
	logsvc "github.com/joineazy/tracker/services/logger"
	"github.com/joineazy/tracker/storage/localstore"
	"github.com/joineazy/tracker/tests"
)

var fixedNow = time.Date(2025, 10, 16, 15, 4, 5, 0, time.UTC)

func setup(t *testing.T) (*assignment.Service, *user.Service, *localstore.Store) {
	assignment.NowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { assignment.NowFunc = time.Now })

	store, _ := testutil.PrepareStore(t)
	_, err := store.SeedIfEmpty()
	require.NoError(t, err)

	conf := testutil.Config()
	usrSvc := user.NewService(store)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, testutil.Logger(conf))
	return assignment.NewService(store, usrSvc, mailSvc, testutil.Logger(conf)), usrSvc, store
}

func TestService_Create(t *testing.T) {
	svc, _, _ := setup(t)

	tests := []struct {
		name      string
		data      assignment.NewAssignment
		wantField string
	}{
		{name: "blank title", data: assignment.NewAssignment{Title: " ", DueDate: "2025-12-01", AssignedTo: []string{"s1"}}, wantField: "title"},
		{name: "no due date", data: assignment.NewAssignment{Title: "Quiz", AssignedTo: []string{"s1"}}, wantField: "dueDate"},
		{name: "due date with time", data: assignment.NewAssignment{Title: "Quiz", DueDate: "2025-12-01T10:00:00Z", AssignedTo: []string{"s1"}}, wantField: "dueDate"},
		{name: "bad link", data: assignment.NewAssignment{Title: "Quiz", DueDate: "2025-12-01", DriveLink: "drive", AssignedTo: []string{"s1"}}, wantField: "driveLink"},
		{name: "nobody assigned", data: assignment.NewAssignment{Title: "Quiz", DueDate: "2025-12-01", AssignedTo: []string{}}, wantField: "assignedTo"},
		{name: "assigned twice", data: assignment.NewAssignment{Title: "Quiz", DueDate: "2025-12-01", AssignedTo: []string{"s1", "s1"}}, wantField: "assignedTo"},
		{name: "unknown student", data: assignment.NewAssignment{Title: "Quiz", DueDate: "2025-12-01", AssignedTo: []string{"s1", "s9"}}, wantField: "assignedTo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.data)
			require.Error(t, err)

			var fields []core.FieldError
			var vErr *core.ValidationError
			var vErrs validator.ValidationErrors
			switch {
			case errors.As(err, &vErr):
				fields = vErr.Fields
			case errors.As(err, &vErrs):
				fields = core.TranslateErrors(vErrs)
			default:
				t.Fatalf("Create() error = %v, want a validation error", err)
			}
			require.NotEmpty(t, fields)
			assert.True(t, strings.HasPrefix(fields[0].Field, tt.wantField), "field %s", fields[0].Field)
		})
	}

	assignments, err := svc.Query()
	require.NoError(t, err)
	assert.Len(t, assignments, 2) // seeds only
}

func TestService_toggleScenario(t *testing.T) {
	svc, _, _ := setup(t)

	a, err := svc.Create(assignment.NewAssignment{Title: "Quiz 1", DueDate: "2025-12-01", AssignedTo: []string{"s1"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.ID, "a"))
	assert.Equal(t, map[string]assignment.Submission{}, a.Submissions)

	got, err := svc.GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	a, err = svc.ToggleSubmission(a.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]assignment.Submission{
		"s1": {Status: assignment.StatusSubmitted, Time: "10/16/2025, 3:04:05 PM"},
	}, a.Submissions)

	a, err = svc.ToggleSubmission(a.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]assignment.Submission{}, a.Submissions)

	got, err = svc.GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]assignment.Submission{}, got.Submissions)
}

func TestService_ToggleSubmission_isItsOwnInverse(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.ToggleSubmission("a1", "s2")
	require.NoError(t, err)
	before, err := svc.GetByID("a1")
	require.NoError(t, err)

	for _, studentID := range []string{"s1", "s2", "s3"} {
		_, err = svc.ToggleSubmission("a1", studentID)
		require.NoError(t, err)
		after, err := svc.ToggleSubmission("a1", studentID)
		require.NoError(t, err)
		assert.Equal(t, before.Submissions, after.Submissions, studentID)
	}
}

func TestService_ToggleSubmission_errors(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.ToggleSubmission("nope", "s1")
	assert.Equal(t, assignment.ErrNotFound, err)

	_, err = svc.ToggleSubmission("a2", "s2") // a2 is for s1 & s3
	assert.Equal(t, assignment.ErrNotAssigned, err)

	a, err := svc.GetByID("a2")
	require.NoError(t, err)
	assert.Empty(t, a.Submissions)
}

func TestService_ConfirmSubmission(t *testing.T) {
	svc, _, _ := setup(t)

	a, err := svc.ConfirmSubmission("a1", "s1")
	require.NoError(t, err)
	first := a.Submissions["s1"]
	assert.Equal(t, assignment.StatusSubmitted, first.Status)

	assignment.NowFunc = func() time.Time { return fixedNow.Add(time.Hour) }
	a, err = svc.ConfirmSubmission("a1", "s1")
	require.NoError(t, err)
	second := a.Submissions["s1"]
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, "10/16/2025, 4:04:05 PM", second.Time)
	assert.Len(t, a.Submissions, 1)

	// one-directional: confirming never revokes
	a, err = svc.ConfirmSubmission("a1", "s1")
	require.NoError(t, err)
	assert.True(t, a.HasSubmitted("s1"))
}

func TestService_ConfirmSubmission_guarded(t *testing.T) {
	svc, _, store := setup(t)
	before, err := store.LoadAssignmentData()
	require.NoError(t, err)

	_, err = svc.ConfirmSubmission("nope", "s1")
	assert.Equal(t, assignment.ErrNotFound, err)

	_, err = svc.ConfirmSubmission("a2", "s2")
	assert.Equal(t, assignment.ErrNotAssigned, err)

	after, err := store.LoadAssignmentData()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestService_Queries(t *testing.T) {
	svc, usrSvc, _ := setup(t)
	rajat := testutil.CreateUser(t, usrSvc, "Rajat", "r@x.com", "secret1", user.RoleStudent)
	testutil.CreateUser(t, usrSvc, "Admin", "admin@x.com", "secret1", user.RoleAdmin)

	students, err := svc.QueryStudents()
	require.NoError(t, err)
	assert.Equal(t, []assignment.Student{
		{ID: rajat.ID, Name: "Rajat"},
		{ID: "s1", Name: "Rajat Kumar"},
		{ID: "s2", Name: "Alice"},
		{ID: "s3", Name: "Bob"},
	}, students)

	a, err := svc.Create(assignment.NewAssignment{Title: "Essay", DueDate: "2025-12-01", AssignedTo: []string{rajat.ID, "s2"}})
	require.NoError(t, err)

	tests := []struct {
		studentID string
		want      []string
	}{
		{studentID: "s1", want: []string{"a1", "a2"}},
		{studentID: "s2", want: []string{"a1", a.ID}},
		{studentID: rajat.ID, want: []string{a.ID}},
		{studentID: "nobody"},
	}
	for _, tt := range tests {
		t.Run(tt.studentID, func(t *testing.T) {
			assignments, err := svc.QueryAssignedTo(tt.studentID)
			require.NoError(t, err)
			var ids []string
			for _, a := range assignments {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err = svc.GetByID("nope")
	assert.Equal(t, assignment.ErrNotFound, err)
}

func TestService_Create_notifiesAssignees(t *testing.T) {
	svc, usrSvc, _ := setup(t)
	emailsvc.ResetSentMessages()

	rajat := testutil.CreateUser(t, usrSvc, "Rajat", "r@x.com", "secret1", user.RoleStudent)
	testutil.CreateUser(t, usrSvc, "Alice", "alice@x.com", "secret1", user.RoleStudent)

	_, err := svc.Create(assignment.NewAssignment{
		Title:      "Essay",
		DueDate:    "2025-12-01",
		DriveLink:  "https://drive.google.com/essay",
		AssignedTo: []string{rajat.ID, "s1"},
	})
	require.NoError(t, err)

	sent := emailsvc.Sent()
	require.Len(t, sent, 1) // seed students have no email
	msg := sent[0]
	assert.Equal(t, "r@x.com", msg.To[0].Address)
	assert.Equal(t, "New assignment: Essay", msg.Subject)
	assert.Contains(t, msg.TextContent, "Hello Rajat,")
	assert.Contains(t, msg.TextContent, "Due: 2025-12-01")
	assert.Contains(t, msg.TextContent, "Resources: https://drive.google.com/essay")
}

// flakyDirectory answers the first QueryStudents call and fails afterwards.
type flakyDirectory struct {
	*user.Service
	calls int
}

func (d *flakyDirectory) QueryStudents() ([]user.User, error) {
	d.calls++
	if d.calls > 1 {
		return nil, assert.AnError
	}
	return d.Service.QueryStudents()
}

func TestService_Create_directoryFailureIsLogged(t *testing.T) {
	_, usrSvc, store := setup(t)
	emailsvc.ResetSentMessages()
	testutil.CreateUser(t, usrSvc, "Rajat", "r@x.com", "secret1", user.RoleStudent)

	conf := testutil.Config()
	var buf bytes.Buffer
	logger := logsvc.NewRollbarLogger(log.New(&buf, "", 0), conf)
	svc := assignment.NewService(store, &flakyDirectory{Service: usrSvc}, emailsvc.NewConsoleServiceMock(conf, logger), logger)

	a, err := svc.Create(assignment.NewAssignment{Title: "Essay", DueDate: "2025-12-01", AssignedTo: []string{"s1"}})
	require.NoError(t, err)

	_, err = svc.GetByID(a.ID)
	require.NoError(t, err)
	assert.Empty(t, emailsvc.Sent())
	assert.Contains(t, buf.String(), "[WARN] assignees not notified")
	assert.Contains(t, buf.String(), assert.AnError.Error())
	assert.Contains(t, buf.String(), a.ID)
}
