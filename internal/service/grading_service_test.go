package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/dto"
	"github.com/anikeev-dev/gradehub-api/internal/models"
	"github.com/anikeev-dev/gradehub-api/internal/repository"
)

type fakeGradingRepo struct {
	homework      models.Homework
	lookupErr     error
	saveErr       error
	gradeWrites   int
	revisionRows  []models.Grade
	invalidations int
}

func (f *fakeGradingRepo) GetHomeworkForTeacher(ctx context.Context, homeworkID, teacherID uint) (models.Homework, error) {
	if f.lookupErr != nil {
		return models.Homework{}, f.lookupErr
	}
	return f.homework, nil
}

func (f *fakeGradingRepo) SaveGrade(ctx context.Context, homework *models.Homework, grade *models.Grade) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.gradeWrites++
	if grade.ID == 0 {
		grade.ID = uint(100 + f.gradeWrites)
	}
	homework.Status = models.HomeworkStatusGraded
	homework.Version++
	f.homework = *homework
	f.homework.Grades = replaceNumericGrade(f.homework.Grades, *grade)
	return nil
}

func (f *fakeGradingRepo) SaveRevisionRequest(ctx context.Context, homework *models.Homework, grade *models.Grade) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	grade.ID = uint(200 + len(f.revisionRows))
	f.revisionRows = append(f.revisionRows, *grade)
	homework.Status = models.HomeworkStatusRevision
	homework.Version++
	f.homework = *homework
	return nil
}

func (f *fakeGradingRepo) CountByStatusForTeacher(ctx context.Context, teacherID uint, status string) (int64, error) {
	return 0, nil
}

type fakeInvalidator struct {
	calls []uint
}

func (f *fakeInvalidator) Invalidate(_ context.Context, courseID uint) {
	f.calls = append(f.calls, courseID)
}

func submittedHomework() models.Homework {
	submittedAt := time.Now().Add(-time.Hour)
	return models.Homework{
		ID:           7,
		AssignmentID: 3,
		StudentID:    9,
		Status:       models.HomeworkStatusSubmitted,
		SubmittedAt:  &submittedAt,
		Version:      1,
		Assignment: models.Assignment{
			ID:        3,
			CourseID:  2,
			Title:     "Linear equations",
			MaxPoints: 100,
			DueDate:   time.Now().Add(24 * time.Hour),
		},
		Student: models.StudentProfile{ID: 9, FirstName: "Alexey", LastName: "Ivanov"},
	}
}

func newGradingService(repo repository.GradingRepository, invalidator GradebookInvalidator) GradingService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewGradingService(repo, validate, nil, invalidator, testLogger())
}

func TestApplyGradeValueOutOfRange(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework()}
	svc := newGradingService(repo, nil)

	value := 6
	_, err := svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{GradeValue: &value}, ActivityActor{ID: 1, Role: "teacher"})
	require.Error(t, err)
	require.Equal(t, 0, repo.gradeWrites)
	require.Equal(t, models.HomeworkStatusSubmitted, repo.homework.Status)

	value = 0
	_, err = svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{GradeValue: &value}, ActivityActor{ID: 1, Role: "teacher"})
	require.Error(t, err)
	require.Equal(t, 0, repo.gradeWrites)
}

func TestApplyGradePointsExceedMax(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework()}
	svc := newGradingService(repo, nil)

	points := 101
	_, err := svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{Points: &points}, ActivityActor{ID: 1, Role: "teacher"})
	require.ErrorIs(t, err, ErrPointsOutOfRange)
	require.Equal(t, 0, repo.gradeWrites)
	require.Equal(t, models.HomeworkStatusSubmitted, repo.homework.Status)
}

func TestApplyGradeRequiresNumericField(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework()}
	svc := newGradingService(repo, nil)

	_, err := svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{Comment: "nice"}, ActivityActor{ID: 1, Role: "teacher"})
	require.ErrorIs(t, err, ErrGradeMissingValue)
	require.Equal(t, 0, repo.gradeWrites)
}

func TestApplyGradeTransitionsToGraded(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework()}
	invalidator := &fakeInvalidator{}
	svc := newGradingService(repo, invalidator)

	value := 4
	points := 75
	result, err := svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{GradeValue: &value, Points: &points, Comment: "solid"}, ActivityActor{ID: 1, Role: "teacher"})
	require.NoError(t, err)
	require.Equal(t, models.HomeworkStatusGraded, result.Status)
	require.NotNil(t, result.Grade)
	require.Equal(t, 75, *result.Grade.Points)
	require.Equal(t, 4, *result.Grade.GradeValue)
	require.Equal(t, "good", result.Grade.GradeLabel)
	require.Equal(t, 1, repo.gradeWrites)
	require.Equal(t, []uint{2}, invalidator.calls)
}

func TestApplyGradeUpsertsExistingSlot(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework()}
	svc := newGradingService(repo, nil)
	actor := ActivityActor{ID: 1, Role: "teacher"}

	first := 60
	_, err := svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{Points: &first}, actor)
	require.NoError(t, err)

	second := 90
	result, err := svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{Points: &second}, actor)
	require.NoError(t, err)
	require.Equal(t, 2, repo.gradeWrites)
	require.Equal(t, 90, *result.Grade.Points)

	// Still exactly one numeric grade row.
	numeric := 0
	for _, grade := range repo.homework.Grades {
		if !grade.IsRevisionRequest {
			numeric++
		}
	}
	require.Equal(t, 1, numeric)
}

func TestApplyGradeIdempotent(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework()}
	svc := newGradingService(repo, nil)
	actor := ActivityActor{ID: 1, Role: "teacher"}

	points := 75
	_, err := svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{Points: &points, Comment: "solid"}, actor)
	require.NoError(t, err)
	require.Equal(t, 1, repo.gradeWrites)

	result, err := svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{Points: &points, Comment: "solid"}, actor)
	require.NoError(t, err)
	require.Equal(t, 1, repo.gradeWrites, "identical re-grade must not write")
	require.Equal(t, 75, *result.Grade.Points)
}

func TestApplyGradeHomeworkNotFound(t *testing.T) {
	repo := &fakeGradingRepo{lookupErr: gorm.ErrRecordNotFound}
	svc := newGradingService(repo, nil)

	points := 10
	_, err := svc.ApplyGrade(context.Background(), 99, dto.ApplyGradeRequest{Points: &points}, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrHomeworkNotFound)
}

func TestApplyGradeConflict(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework(), saveErr: repository.ErrVersionConflict}
	svc := newGradingService(repo, nil)

	points := 10
	_, err := svc.ApplyGrade(context.Background(), 7, dto.ApplyGradeRequest{Points: &points}, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrGradingConflict)
}

func TestRequestRevisionEmptyComment(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework()}
	svc := newGradingService(repo, nil)

	_, err := svc.RequestRevision(context.Background(), 7, dto.RequestRevisionRequest{Comment: "   "}, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrEmptyRevisionComment)
	require.Empty(t, repo.revisionRows)
	require.Equal(t, models.HomeworkStatusSubmitted, repo.homework.Status)
}

func TestRequestRevisionAppendsRow(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework()}
	svc := newGradingService(repo, nil)

	result, err := svc.RequestRevision(context.Background(), 7, dto.RequestRevisionRequest{Comment: "please redo task 2"}, ActivityActor{ID: 1, Role: "teacher"})
	require.NoError(t, err)
	require.Equal(t, models.HomeworkStatusRevision, result.Status)
	require.Len(t, repo.revisionRows, 1)
	require.True(t, repo.revisionRows[0].IsRevisionRequest)
	require.Nil(t, repo.revisionRows[0].GradeValue)
	require.Nil(t, repo.revisionRows[0].Points)
	require.Equal(t, "please redo task 2", repo.revisionRows[0].Comment)
}

func TestRequestRevisionRequiresSubmittedState(t *testing.T) {
	homework := submittedHomework()
	homework.Status = models.HomeworkStatusAssigned
	repo := &fakeGradingRepo{homework: homework}
	svc := newGradingService(repo, nil)

	_, err := svc.RequestRevision(context.Background(), 7, dto.RequestRevisionRequest{Comment: "nothing submitted yet"}, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRequestRevisionSanitizesComment(t *testing.T) {
	repo := &fakeGradingRepo{homework: submittedHomework()}
	svc := newGradingService(repo, nil)

	_, err := svc.RequestRevision(context.Background(), 7, dto.RequestRevisionRequest{Comment: "<script>alert(1)</script>redo it"}, ActivityActor{ID: 1})
	require.NoError(t, err)
	require.Equal(t, "redo it", repo.revisionRows[0].Comment)
}
