package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssignment_Progress(t *testing.T) {
	sub := Submission{Status: StatusSubmitted, Time: "10/16/2025, 3:04:05 PM"}

	tests := []struct {
		name string
		a    Assignment
		want Progress
	}{
		{name: "nobody assigned", a: Assignment{}, want: Progress{}},
		{name: "none submitted", a: Assignment{AssignedTo: []string{"s1", "s2"}}, want: Progress{Total: 2}},
		{name: "one of three", a: Assignment{AssignedTo: []string{"s1", "s2", "s3"}, Submissions: map[string]Submission{"s1": sub}}, want: Progress{Submitted: 1, Total: 3, Percent: 33}},
		{name: "two of three", a: Assignment{AssignedTo: []string{"s1", "s2", "s3"}, Submissions: map[string]Submission{"s1": sub, "s2": sub}}, want: Progress{Submitted: 2, Total: 3, Percent: 67}},
		{name: "all", a: Assignment{AssignedTo: []string{"s1"}, Submissions: map[string]Submission{"s1": sub}}, want: Progress{Submitted: 1, Total: 1, Percent: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Progress())
		})
	}
}

func TestAssignment_StudentStatus(t *testing.T) {
	a := Assignment{
		DueDate:     "2025-10-30",
		AssignedTo:  []string{"s1", "s2"},
		Submissions: map[string]Submission{"s1": {Status: StatusSubmitted, Time: "10/29/2025, 9:00:00 AM"}},
	}
	before := time.Date(2025, 10, 29, 23, 0, 0, 0, time.UTC)
	after := time.Date(2025, 10, 30, 0, 0, 1, 0, time.UTC)

	assert.Equal(t, StudentStatusSubmitted, a.StudentStatus("s1", after))
	assert.Equal(t, StudentStatusPending, a.StudentStatus("s2", before))
	assert.Equal(t, StudentStatusOverdue, a.StudentStatus("s2", after))

	a.DueDate = "soon"
	assert.Equal(t, StudentStatusPending, a.StudentStatus("s2", after))
}

func TestSubmission_Date(t *testing.T) {
	assert.Equal(t, "10/29/2025", Submission{Time: "10/29/2025, 9:00:00 AM"}.Date())
	assert.Equal(t, "", Submission{}.Date())
}

func TestDataset_Normalize(t *testing.T) {
	ds := Dataset{Assignments: []Assignment{{ID: "a1"}}}
	ds.Normalize()

	assert.Equal(t, []Student{}, ds.Students)
	assert.Equal(t, []string{}, ds.Assignments[0].AssignedTo)
	assert.Equal(t, map[string]Submission{}, ds.Assignments[0].Submissions)
	assert.Equal(t, 0, ds.find("a1"))
	assert.Equal(t, -1, ds.find("a2"))
}
