package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

func TestScoreTeacher(t *testing.T) {
	cases := []struct {
		name        string
		courseCount int
		gradedCount int
		points      int
		rewards     int
	}{
		{"no activity", 0, 0, 0, 0},
		{"one course, nothing graded", 1, 0, 50, 1},
		{"one course, twelve graded", 1, 12, 80, 2},
		{"three courses, twelve graded", 3, 12, 155, 3},
		{"graded milestone alone needs a course for its points only", 0, 10, 30, 1},
		{"boundary at ten graded", 1, 10, 80, 2},
		{"two courses below the three-course tier", 2, 9, 50, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			points, rewards := ScoreTeacher(tc.courseCount, tc.gradedCount)
			require.Equal(t, tc.points, points)
			require.Equal(t, tc.rewards, rewards)
		})
	}
}

type countingGradingRepo struct {
	fakeGradingRepo
	counts map[string]int64
}

func (c *countingGradingRepo) CountByStatusForTeacher(ctx context.Context, teacherID uint, status string) (int64, error) {
	return c.counts[status], nil
}

func TestGetDashboard(t *testing.T) {
	courses := &fakeCourseRepo{courses: []models.Course{
		{ID: 1, Title: "Algebra", TeacherID: 1},
		{ID: 2, Title: "Geometry", TeacherID: 1},
		{ID: 3, Title: "Calculus", TeacherID: 1},
	}}
	grading := &countingGradingRepo{counts: map[string]int64{
		models.HomeworkStatusGraded:    12,
		models.HomeworkStatusSubmitted: 4,
	}}

	svc := NewTeacherDashboardService(courses, grading, testLogger())

	dashboard, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 3, dashboard.CourseCount)
	require.Equal(t, 12, dashboard.GradedCount)
	require.Equal(t, 4, dashboard.PendingCount)
	require.Equal(t, 155, dashboard.TotalPoints)
	require.Equal(t, 3, dashboard.AchievedRewards)
	require.Len(t, dashboard.Rewards, 3)
	for _, reward := range dashboard.Rewards {
		require.True(t, reward.Achieved)
	}
	require.Len(t, dashboard.Courses, 3)
}
