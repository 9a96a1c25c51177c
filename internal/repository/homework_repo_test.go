package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

func TestHomeworkRepositoryFindByAssignmentAndStudent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHomeworkRepository(db)
	_, homework := seedHomework(t, db)

	found, err := repo.FindByAssignmentAndStudent(context.Background(), homework.AssignmentID, homework.StudentID)
	require.NoError(t, err)
	require.Equal(t, homework.ID, found.ID)
	require.Equal(t, "Linear equations", found.Assignment.Title)

	_, err = repo.FindByAssignmentAndStudent(context.Background(), homework.AssignmentID, homework.StudentID+1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHomeworkRepositoryUniqueAssignmentStudentPair(t *testing.T) {
	db := setupTestDB(t)
	_, homework := seedHomework(t, db)

	duplicate := models.Homework{
		AssignmentID: homework.AssignmentID,
		StudentID:    homework.StudentID,
		Status:       models.HomeworkStatusAssigned,
		Priority:     models.HomeworkPriorityLow,
		Version:      1,
	}
	require.Error(t, db.Create(&duplicate).Error)
}

func TestHomeworkRepositoryListByCourse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHomeworkRepository(db)
	teacher, homework := seedHomework(t, db)

	// A second course owned by the same teacher must not leak into the listing.
	otherCourse := models.Course{Title: "Geometry", TeacherID: teacher.ID, IsActive: true}
	require.NoError(t, db.Create(&otherCourse).Error)
	otherAssignment := models.Assignment{
		CourseID:  otherCourse.ID,
		Title:     "Triangles",
		Type:      models.AssignmentTypeTest,
		MaxPoints: 50,
		DueDate:   time.Now().Add(48 * time.Hour),
	}
	require.NoError(t, db.Create(&otherAssignment).Error)
	require.NoError(t, db.Create(&models.Homework{
		AssignmentID: otherAssignment.ID,
		StudentID:    homework.StudentID,
		Status:       models.HomeworkStatusAssigned,
		Priority:     models.HomeworkPriorityMedium,
		Version:      1,
	}).Error)

	var assignment models.Assignment
	require.NoError(t, db.First(&assignment, homework.AssignmentID).Error)

	homeworks, err := repo.ListByCourse(context.Background(), assignment.CourseID)
	require.NoError(t, err)
	require.Len(t, homeworks, 1)
	require.Equal(t, homework.ID, homeworks[0].ID)
}

func TestHomeworkRepositoryUpdateStatusVersioned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHomeworkRepository(db)
	teacher, _ := seedHomework(t, db)

	student := models.StudentProfile{FirstName: "Maria", LastName: "Petrova", Email: "petrova@example.com"}
	require.NoError(t, db.Create(&student).Error)

	var assignment models.Assignment
	require.NoError(t, db.First(&assignment).Error)

	homework := models.Homework{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		Status:       models.HomeworkStatusAssigned,
		Priority:     models.HomeworkPriorityMedium,
		Version:      1,
	}
	require.NoError(t, repo.Create(context.Background(), &homework))

	submittedAt := time.Now()
	homework.SubmittedAt = &submittedAt
	err := repo.UpdateStatus(context.Background(), &homework, models.HomeworkStatusSubmitted, &models.HomeworkHistory{
		HomeworkID: homework.ID,
		FromStatus: models.HomeworkStatusAssigned,
		ToStatus:   models.HomeworkStatusSubmitted,
		ActorID:    teacher.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.HomeworkStatusSubmitted, homework.Status)
	require.Equal(t, 2, homework.Version)

	stale := homework
	stale.Version = 1
	err = repo.UpdateStatus(context.Background(), &stale, models.HomeworkStatusRevision, nil)
	require.ErrorIs(t, err, ErrVersionConflict)
}
