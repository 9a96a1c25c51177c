package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"assigned to submitted", HomeworkStatusAssigned, HomeworkStatusSubmitted, true},
		{"submitted to graded", HomeworkStatusSubmitted, HomeworkStatusGraded, true},
		{"submitted to revision", HomeworkStatusSubmitted, HomeworkStatusRevision, true},
		{"revision to submitted", HomeworkStatusRevision, HomeworkStatusSubmitted, true},
		{"assigned to missed", HomeworkStatusAssigned, HomeworkStatusMissed, true},
		{"assigned to late", HomeworkStatusAssigned, HomeworkStatusLate, true},
		{"submitted to late", HomeworkStatusSubmitted, HomeworkStatusLate, true},
		{"grading allowed from any state", HomeworkStatusMissed, HomeworkStatusGraded, true},
		{"re-grading a graded homework", HomeworkStatusGraded, HomeworkStatusGraded, true},
		{"assigned cannot jump to revision", HomeworkStatusAssigned, HomeworkStatusRevision, false},
		{"graded has no outgoing edges", HomeworkStatusGraded, HomeworkStatusSubmitted, false},
		{"missed is terminal", HomeworkStatusMissed, HomeworkStatusSubmitted, false},
		{"late is terminal", HomeworkStatusLate, HomeworkStatusSubmitted, false},
		{"revision cannot miss", HomeworkStatusRevision, HomeworkStatusMissed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.allowed, ValidTransition(tc.from, tc.to))
		})
	}
}

func TestHomeworkSubmissionStatus(t *testing.T) {
	due := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)

	unsubmitted := Homework{}
	require.False(t, unsubmitted.IsOnTime(due))
	require.Equal(t, SubmissionNotSubmitted, unsubmitted.SubmissionStatus(due))

	early := due.Add(-24 * time.Hour)
	onTime := Homework{SubmittedAt: &early}
	require.True(t, onTime.IsOnTime(due))
	require.Equal(t, SubmissionOnTime, onTime.SubmissionStatus(due))

	exact := due
	atDeadline := Homework{SubmittedAt: &exact}
	require.True(t, atDeadline.IsOnTime(due))

	past := due.Add(time.Minute)
	late := Homework{SubmittedAt: &past}
	require.False(t, late.IsOnTime(due))
	require.Equal(t, SubmissionLate, late.SubmissionStatus(due))
}

func TestHomeworkCurrentGrade(t *testing.T) {
	points := 75
	homework := Homework{
		Grades: []Grade{
			{ID: 3, IsRevisionRequest: true, Comment: "please redo task 2"},
			{ID: 1, Points: &points},
		},
	}

	current := homework.CurrentGrade()
	require.NotNil(t, current)
	require.Equal(t, uint(1), current.ID)
	require.Equal(t, 75, *current.Points)

	onlyRevisions := Homework{Grades: []Grade{{IsRevisionRequest: true}}}
	require.Nil(t, onlyRevisions.CurrentGrade())
}

func TestAssignmentIsOverdue(t *testing.T) {
	due := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	assignment := Assignment{DueDate: due}

	require.False(t, assignment.IsOverdue(due))
	require.False(t, assignment.IsOverdue(due.Add(-time.Hour)))
	require.True(t, assignment.IsOverdue(due.Add(time.Second)))
}
