package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/anikeev-dev/gradehub-api/internal/dto"
	"github.com/anikeev-dev/gradehub-api/internal/models"
)

func newHomeworkService(homeworks *fakeHomeworkRepo, assignments *fakeAssignmentRepo) HomeworkService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewHomeworkService(homeworks, assignments, validate, testLogger())
}

func assignedHomework(due time.Time) models.Homework {
	return models.Homework{
		ID:           70,
		AssignmentID: 30,
		StudentID:    10,
		Status:       models.HomeworkStatusAssigned,
		Priority:     models.HomeworkPriorityMedium,
		Version:      1,
		Assignment: models.Assignment{
			ID: 30, CourseID: 2, Title: "Linear equations", MaxPoints: 100, DueDate: due,
		},
		Student: models.StudentProfile{ID: 10, FirstName: "Alexey", LastName: "Ivanov"},
	}
}

func TestIssueHomework(t *testing.T) {
	assignments := &fakeAssignmentRepo{assignments: []models.Assignment{
		{ID: 30, CourseID: 2, Title: "Linear equations", MaxPoints: 100},
	}}
	homeworks := &fakeHomeworkRepo{}
	svc := newHomeworkService(homeworks, assignments)

	result, err := svc.Issue(context.Background(), dto.IssueHomeworkRequest{AssignmentID: 30, StudentID: 10}, ActivityActor{ID: 1, Role: "teacher"})
	require.NoError(t, err)
	require.Equal(t, models.HomeworkStatusAssigned, result.Status)
	require.Equal(t, models.HomeworkPriorityMedium, result.Priority)
	require.Len(t, homeworks.created, 1)
}

func TestIssueHomeworkDuplicate(t *testing.T) {
	assignments := &fakeAssignmentRepo{assignments: []models.Assignment{{ID: 30, CourseID: 2}}}
	homeworks := &fakeHomeworkRepo{homeworks: []models.Homework{assignedHomework(time.Now())}}
	svc := newHomeworkService(homeworks, assignments)

	_, err := svc.Issue(context.Background(), dto.IssueHomeworkRequest{AssignmentID: 30, StudentID: 10}, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrHomeworkExists)
	require.Empty(t, homeworks.created)
}

func TestSubmitHomework(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)
	homeworks := &fakeHomeworkRepo{homeworks: []models.Homework{assignedHomework(due)}}
	svc := newHomeworkService(homeworks, &fakeAssignmentRepo{})

	result, err := svc.Submit(context.Background(), 70, dto.SubmitHomeworkRequest{TextContent: "my solution"})
	require.NoError(t, err)
	require.Equal(t, models.HomeworkStatusSubmitted, result.Status)
	require.NotNil(t, result.SubmittedAt)
	require.True(t, result.IsOnTime)
	require.Equal(t, models.SubmissionOnTime, result.SubmissionStatus)
}

func TestSubmitHomeworkAfterDeadlineIsLate(t *testing.T) {
	due := time.Now().Add(-24 * time.Hour)
	homeworks := &fakeHomeworkRepo{homeworks: []models.Homework{assignedHomework(due)}}
	svc := newHomeworkService(homeworks, &fakeAssignmentRepo{})

	result, err := svc.Submit(context.Background(), 70, dto.SubmitHomeworkRequest{})
	require.NoError(t, err)
	require.Equal(t, models.HomeworkStatusSubmitted, result.Status)
	require.False(t, result.IsOnTime)
	require.Equal(t, models.SubmissionLate, result.SubmissionStatus)
}

func TestSubmitHomeworkInvalidTransition(t *testing.T) {
	homework := assignedHomework(time.Now().Add(24 * time.Hour))
	homework.Status = models.HomeworkStatusGraded
	homeworks := &fakeHomeworkRepo{homeworks: []models.Homework{homework}}
	svc := newHomeworkService(homeworks, &fakeAssignmentRepo{})

	_, err := svc.Submit(context.Background(), 70, dto.SubmitHomeworkRequest{})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestResubmitAfterRevision(t *testing.T) {
	homework := assignedHomework(time.Now().Add(24 * time.Hour))
	homework.Status = models.HomeworkStatusRevision
	homeworks := &fakeHomeworkRepo{homeworks: []models.Homework{homework}}
	svc := newHomeworkService(homeworks, &fakeAssignmentRepo{})

	result, err := svc.Submit(context.Background(), 70, dto.SubmitHomeworkRequest{TextContent: "fixed"})
	require.NoError(t, err)
	require.Equal(t, models.HomeworkStatusSubmitted, result.Status)
}

func TestMarkMissedBeforeDeadline(t *testing.T) {
	homeworks := &fakeHomeworkRepo{homeworks: []models.Homework{assignedHomework(time.Now().Add(time.Hour))}}
	svc := newHomeworkService(homeworks, &fakeAssignmentRepo{})

	_, err := svc.MarkMissed(context.Background(), 70, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrDeadlineNotPassed)
}

func TestMarkMissedAfterDeadline(t *testing.T) {
	homeworks := &fakeHomeworkRepo{homeworks: []models.Homework{assignedHomework(time.Now().Add(-time.Hour))}}
	svc := newHomeworkService(homeworks, &fakeAssignmentRepo{})

	result, err := svc.MarkMissed(context.Background(), 70, ActivityActor{ID: 1})
	require.NoError(t, err)
	require.Equal(t, models.HomeworkStatusMissed, result.Status)
}

func TestMarkMissedOnSubmittedWork(t *testing.T) {
	homework := assignedHomework(time.Now().Add(-time.Hour))
	homework.Status = models.HomeworkStatusSubmitted
	homeworks := &fakeHomeworkRepo{homeworks: []models.Homework{homework}}
	svc := newHomeworkService(homeworks, &fakeAssignmentRepo{})

	_, err := svc.MarkMissed(context.Background(), 70, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRecordAttachmentDetectsMetadata(t *testing.T) {
	homeworks := &fakeHomeworkRepo{homeworks: []models.Homework{assignedHomework(time.Now())}}
	svc := newHomeworkService(homeworks, &fakeAssignmentRepo{})

	content := "solution line one\nsolution line two\n"
	attachment, err := svc.RecordAttachment(context.Background(), 70, "solution.txt", strings.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, "solution.txt", attachment.FileName)
	require.Equal(t, int64(len(content)), attachment.SizeBytes)
	require.Contains(t, attachment.ContentType, "text/plain")
}

func TestBundleManifestTotals(t *testing.T) {
	homeworks := &fakeHomeworkRepo{
		homeworks: []models.Homework{assignedHomework(time.Now())},
		attachments: []models.Attachment{
			{ID: 1, HomeworkID: 70, FileName: "a.txt", ContentType: "text/plain; charset=utf-8", SizeBytes: 120},
			{ID: 2, HomeworkID: 70, FileName: "b.pdf", ContentType: "application/pdf", SizeBytes: 4096},
		},
	}
	svc := newHomeworkService(homeworks, &fakeAssignmentRepo{})

	manifest, err := svc.BundleManifest(context.Background(), 70)
	require.NoError(t, err)
	require.Equal(t, uint(70), manifest.HomeworkID)
	require.Equal(t, "Ivanov Alexey", manifest.StudentName)
	require.Equal(t, "Linear equations", manifest.AssignmentTitle)
	require.Len(t, manifest.Files, 2)
	require.Equal(t, int64(4216), manifest.TotalSizeBytes)
}
