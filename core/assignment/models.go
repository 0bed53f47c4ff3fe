package assignment

import (
	"math"
	"strings"
	"time"

	"github.com/joineazy/tracker/core"
)

// StatusSubmitted is the only status a Submission ever holds.
const StatusSubmitted = "submitted"

// TimeLayout renders submission times like an en-US locale string, e.g. "10/16/2026, 3:04:05 PM".
const TimeLayout = "1/2/2006, 3:04:05 PM"

// Student statuses, as shown on a student's dashboard.
const (
	StudentStatusPending   = "pending"
	StudentStatusOverdue   = "overdue"
	StudentStatusSubmitted = "submitted"
)

// Dataset is the whole assignment document.
type Dataset struct {
	Students    []Student    `json:"students"`
	Assignments []Assignment `json:"assignments"`
}

// Student is a sample student shipped with the seed data.
type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Assignment struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	DueDate     string                `json:"dueDate"`
	DriveLink   string                `json:"driveLink"`
	AssignedTo  []string              `json:"assignedTo"`
	Submissions map[string]Submission `json:"submissions"`
}

// Submission exists only for students who submitted; its absence means pending.
type Submission struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Date is the date part of the display time.
func (s Submission) Date() string {
	return strings.TrimSpace(strings.SplitN(s.Time, ",", 2)[0])
}

func (a Assignment) IsAssignedTo(studentID string) bool {
	return core.ContainsString(a.AssignedTo, studentID)
}

func (a Assignment) HasSubmitted(studentID string) bool {
	sub, ok := a.Submissions[studentID]
	return ok && sub.Status == StatusSubmitted
}

// Due returns the due date at midnight UTC.
func (a Assignment) Due() (time.Time, error) {
	return time.Parse(core.DateLayout, a.DueDate)
}

// Progress is the share of assignees who submitted.
type Progress struct {
	Submitted int `json:"submitted"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

func (a Assignment) Progress() Progress {
	p := Progress{Total: len(a.AssignedTo), Submitted: len(a.Submissions)}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Submitted) / float64(p.Total) * 100))
	}
	return p
}

// StudentStatus tells whether studentID submitted, is late or still has time.
func (a Assignment) StudentStatus(studentID string, now time.Time) string {
	if a.HasSubmitted(studentID) {
		return StudentStatusSubmitted
	}
	if due, err := a.Due(); err == nil && due.Before(now) {
		return StudentStatusOverdue
	}
	return StudentStatusPending
}

// Normalize replaces missing collections with empty ones.
func (ds *Dataset) Normalize() {
	if ds.Students == nil {
		ds.Students = []Student{}
	}
	if ds.Assignments == nil {
		ds.Assignments = []Assignment{}
	}
	for i := range ds.Assignments {
		if ds.Assignments[i].AssignedTo == nil {
			ds.Assignments[i].AssignedTo = []string{}
		}
		if ds.Assignments[i].Submissions == nil {
			ds.Assignments[i].Submissions = map[string]Submission{}
		}
	}
}

func (ds Dataset) find(id string) int {
	for i, a := range ds.Assignments {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title      string   `json:"title" validate:"notblank"`
	DueDate    string   `json:"dueDate" validate:"required,isodate"`
	DriveLink  string   `json:"driveLink" validate:"omitempty,url"`
	AssignedTo []string `json:"assignedTo" validate:"required,min=1,unique,dive,required"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.DueDate = core.CleanString(na.DueDate)
	na.DriveLink = core.CleanString(na.DriveLink)
	return core.Validate.Struct(na)
}
