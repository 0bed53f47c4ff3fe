package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core/assignment"
)

type assignmentApi struct {
	svc     *assignment.Service
	metrics *metrics
}

func registerAssignmentAPI(g *echo.Group, svc *assignment.Service, m *metrics) {
	api := assignmentApi{svc: svc, metrics: m}

	ag := g.Group("/assignments", loginRequired())
	ag.GET("", api.query)
	ag.POST("", api.create, adminRequired())
	ag.GET("/:id", api.retrieve)
	ag.POST("/:id/submissions/:studentID", api.toggleSubmission, adminRequired())
	ag.POST("/:id/confirm", api.confirmSubmission, studentRequired())
}

type (
	// AdminAssignment is an Assignment with its submission progress.
	AdminAssignment struct {
		assignment.Assignment
		Progress assignment.Progress `json:"progress"`
	}

	// StudentAssignment is what a student sees of an Assignment given to them.
	StudentAssignment struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		DueDate     string `json:"dueDate"`
		DriveLink   string `json:"driveLink"`
		Status      string `json:"status"`
		SubmittedOn string `json:"submittedOn,omitempty"`
	}
)

func newAdminAssignment(a assignment.Assignment) AdminAssignment {
	return AdminAssignment{Assignment: a, Progress: a.Progress()}
}

func newStudentAssignment(a assignment.Assignment, studentID string) StudentAssignment {
	sa := StudentAssignment{
		ID:        a.ID,
		Title:     a.Title,
		DueDate:   a.DueDate,
		DriveLink: a.DriveLink,
		Status:    a.StudentStatus(studentID, assignment.NowFunc()),
	}
	if sub, ok := a.Submissions[studentID]; ok {
		sa.SubmittedOn = sub.Date()
	}
	return sa
}

// Handlers

func (api *assignmentApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	if usr.IsAdmin() {
		assignments, err := api.svc.Query()
		if err != nil {
			return errors.Wrap(err, "querying assignments")
		}
		views := make([]AdminAssignment, 0, len(assignments))
		for _, a := range assignments {
			views = append(views, newAdminAssignment(a))
		}
		return ctx.JSON(http.StatusOK, views)
	}

	assignments, err := api.svc.QueryAssignedTo(usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	views := make([]StudentAssignment, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, newStudentAssignment(a, usr.ID))
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	a, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	api.metrics.assignments.Inc()

	return ctx.JSON(http.StatusCreated, newAdminAssignment(a))
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	a, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	if usr.IsAdmin() {
		return ctx.JSON(http.StatusOK, newAdminAssignment(a))
	}
	if !a.IsAssignedTo(usr.ID) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, newStudentAssignment(a, usr.ID))
}

func (api *assignmentApi) toggleSubmission(ctx echo.Context) error {
	studentID := ctx.Param("studentID")
	a, err := api.svc.ToggleSubmission(ctx.Param("id"), studentID)
	if err != nil {
		return errors.Wrap(err, "toggling submission")
	}

	action := actionRevoke
	if a.HasSubmitted(studentID) {
		action = actionMark
	}
	api.metrics.submissions.WithLabelValues(action).Inc()

	return ctx.JSON(http.StatusOK, newAdminAssignment(a))
}

func (api *assignmentApi) confirmSubmission(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	a, err := api.svc.ConfirmSubmission(ctx.Param("id"), usr.ID)
	if err != nil {
		return errors.Wrap(err, "confirming submission")
	}
	api.metrics.submissions.WithLabelValues(actionConfirm).Inc()

	return ctx.JSON(http.StatusOK, newStudentAssignment(a, usr.ID))
}
