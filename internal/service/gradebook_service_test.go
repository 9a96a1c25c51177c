package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/models"
	"github.com/anikeev-dev/gradehub-api/internal/repository"
)

type fakeCourseRepo struct {
	course    models.Course
	courses   []models.Course
	students  []models.StudentProfile
	lookupErr error
}

func (f *fakeCourseRepo) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error) {
	return f.courses, nil
}

func (f *fakeCourseRepo) GetByIDForTeacher(ctx context.Context, id, teacherID uint) (models.Course, error) {
	if f.lookupErr != nil {
		return models.Course{}, f.lookupErr
	}
	return f.course, nil
}

func (f *fakeCourseRepo) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	return int64(len(f.courses)), nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error { return nil }
func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error { return nil }
func (f *fakeCourseRepo) Delete(ctx context.Context, id uint) error               { return nil }
func (f *fakeCourseRepo) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	return nil
}
func (f *fakeCourseRepo) SetEnrollmentActive(ctx context.Context, courseID, studentID uint, active bool) error {
	return nil
}

func (f *fakeCourseRepo) ListActiveStudents(ctx context.Context, courseID uint) ([]models.StudentProfile, error) {
	return f.students, nil
}

type fakeAssignmentRepo struct {
	assignments []models.Assignment
}

func (f *fakeAssignmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	return f.assignments, nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	for _, assignment := range f.assignments {
		if assignment.ID == id {
			return assignment, nil
		}
	}
	return models.Assignment{}, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) GetByIDForTeacher(ctx context.Context, id, teacherID uint) (models.Assignment, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	return nil
}
func (f *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	return nil
}
func (f *fakeAssignmentRepo) Delete(ctx context.Context, id uint) error { return nil }

type fakeHomeworkRepo struct {
	homeworks   []models.Homework
	attachments []models.Attachment
	updateErr   error
	created     []models.Homework
}

func (f *fakeHomeworkRepo) List(ctx context.Context, filter repository.HomeworkFilter) ([]models.Homework, error) {
	return f.homeworks, nil
}

func (f *fakeHomeworkRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Homework, error) {
	return f.homeworks, nil
}

func (f *fakeHomeworkRepo) GetByID(ctx context.Context, id uint) (models.Homework, error) {
	for _, homework := range f.homeworks {
		if homework.ID == id {
			return homework, nil
		}
	}
	return models.Homework{}, gorm.ErrRecordNotFound
}

func (f *fakeHomeworkRepo) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Homework, error) {
	for _, homework := range f.homeworks {
		if homework.AssignmentID == assignmentID && homework.StudentID == studentID {
			return homework, nil
		}
	}
	return models.Homework{}, gorm.ErrRecordNotFound
}

func (f *fakeHomeworkRepo) Create(ctx context.Context, homework *models.Homework) error {
	homework.ID = uint(len(f.homeworks) + 1)
	f.created = append(f.created, *homework)
	f.homeworks = append(f.homeworks, *homework)
	return nil
}

func (f *fakeHomeworkRepo) UpdateStatus(ctx context.Context, homework *models.Homework, toStatus string, history *models.HomeworkHistory) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	homework.Status = toStatus
	homework.Version++
	for i := range f.homeworks {
		if f.homeworks[i].ID == homework.ID {
			f.homeworks[i] = *homework
		}
	}
	return nil
}

func (f *fakeHomeworkRepo) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	attachment.ID = uint(len(f.attachments) + 1)
	f.attachments = append(f.attachments, *attachment)
	return nil
}

func (f *fakeHomeworkRepo) ListAttachments(ctx context.Context, homeworkID uint) ([]models.Attachment, error) {
	return f.attachments, nil
}

func intPtr(v int) *int { return &v }

func gradebookFixtures() (*fakeCourseRepo, *fakeAssignmentRepo, *fakeHomeworkRepo) {
	course := models.Course{ID: 2, Title: "Algebra", TeacherID: 1, IsActive: true}
	group := models.StudentGroup{ID: 1, Name: "MAT-21-1", Code: "MAT-21-01"}

	students := []models.StudentProfile{
		{ID: 10, FirstName: "Alexey", LastName: "Ivanov", Group: &group},
		{ID: 11, FirstName: "Maria", LastName: "Petrova"},
	}

	assignments := []models.Assignment{
		{ID: 31, CourseID: 2, Title: "Quadratics", MaxPoints: 50},
		{ID: 30, CourseID: 2, Title: "Linear equations", MaxPoints: 100},
	}

	submittedAt := time.Now().Add(-time.Hour)
	homeworks := []models.Homework{
		{
			ID: 70, AssignmentID: 30, StudentID: 10,
			Status:      models.HomeworkStatusGraded,
			SubmittedAt: &submittedAt,
			Grades:      []models.Grade{{ID: 1, HomeworkID: 70, Points: intPtr(75), GradeValue: intPtr(4)}},
		},
		{
			ID: 71, AssignmentID: 31, StudentID: 10,
			Status:      models.HomeworkStatusSubmitted,
			SubmittedAt: &submittedAt,
		},
	}

	return &fakeCourseRepo{course: course, students: students},
		&fakeAssignmentRepo{assignments: assignments},
		&fakeHomeworkRepo{homeworks: homeworks}
}

func TestBuildGradebookAggregation(t *testing.T) {
	courses, assignments, homeworks := gradebookFixtures()
	svc := NewGradebookService(courses, assignments, homeworks, nil, time.Minute, testLogger())

	gradebook, err := svc.BuildGradebook(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, uint(2), gradebook.CourseID)
	require.Len(t, gradebook.Rows, 2)

	// Rows keep the repository's last-name ordering.
	ivanov := gradebook.Rows[0]
	require.Equal(t, "Ivanov Alexey", ivanov.FullName)
	require.Equal(t, "MAT-21-1", ivanov.GroupName)
	require.Len(t, ivanov.Entries, 2)

	// Assignments are newest-first.
	require.Equal(t, uint(31), ivanov.Entries[0].AssignmentID)
	require.Equal(t, uint(30), ivanov.Entries[1].AssignmentID)

	// Submitted-but-ungraded work adds nothing to either accumulator.
	require.Nil(t, ivanov.Entries[0].Points)
	require.Equal(t, models.HomeworkStatusSubmitted, ivanov.Entries[0].Status)

	require.NotNil(t, ivanov.Entries[1].Points)
	require.Equal(t, 75, *ivanov.Entries[1].Points)
	require.Equal(t, 75, ivanov.TotalPoints)
	require.Equal(t, 100, ivanov.MaxPoints)
	require.InDelta(t, 75.0, ivanov.Progress, 1e-9)
	require.Equal(t, 4, ivanov.FinalGrade)

	// A student with no homework at all: every cell is "not submitted",
	// progress guards the zero denominator.
	petrova := gradebook.Rows[1]
	require.Equal(t, "Petrova Maria", petrova.FullName)
	require.Equal(t, "", petrova.GroupName)
	require.Equal(t, models.SubmissionNotSubmitted, petrova.Entries[0].Status)
	require.Equal(t, models.SubmissionNotSubmitted, petrova.Entries[1].Status)
	require.Equal(t, 0, petrova.TotalPoints)
	require.Equal(t, 0, petrova.MaxPoints)
	require.Equal(t, 0.0, petrova.Progress)
	require.Equal(t, 1, petrova.FinalGrade)
}

func TestBuildGradebookCourseNotFound(t *testing.T) {
	courses, assignments, homeworks := gradebookFixtures()
	courses.lookupErr = gorm.ErrRecordNotFound
	svc := NewGradebookService(courses, assignments, homeworks, nil, time.Minute, testLogger())

	_, err := svc.BuildGradebook(context.Background(), 2, 99)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestBuildGradebookZeroAssignments(t *testing.T) {
	courses, _, homeworks := gradebookFixtures()
	svc := NewGradebookService(courses, &fakeAssignmentRepo{}, homeworks, nil, time.Minute, testLogger())

	gradebook, err := svc.BuildGradebook(context.Background(), 2, 1)
	require.NoError(t, err)
	for _, row := range gradebook.Rows {
		require.Empty(t, row.Entries)
		require.Equal(t, 0.0, row.Progress)
		require.Equal(t, 1, row.FinalGrade)
	}
}

func TestBuildGradebookCacheRoundTrip(t *testing.T) {
	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})

	courses, assignments, homeworks := gradebookFixtures()
	svc := NewGradebookService(courses, assignments, homeworks, cache, time.Minute, testLogger())

	first, err := svc.BuildGradebook(context.Background(), 2, 1)
	require.NoError(t, err)

	// A grade change without invalidation is served from cache.
	homeworks.homeworks = nil
	cached, err := svc.BuildGradebook(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, first, cached)

	svc.Invalidate(context.Background(), 2)
	rebuilt, err := svc.BuildGradebook(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, 0, rebuilt.Rows[0].TotalPoints)
}

func TestFinalGradeThresholds(t *testing.T) {
	cases := []struct {
		progress float64
		expected int
	}{
		{100, 5},
		{85, 5},
		{84.999, 4},
		{70, 4},
		{69.999, 3},
		{55, 3},
		{54.999, 2},
		{40, 2},
		{39.999, 1},
		{0, 1},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, FinalGrade(tc.progress), "progress %v", tc.progress)
	}
}
