package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/dto"
	"github.com/anikeev-dev/gradehub-api/internal/models"
	"github.com/anikeev-dev/gradehub-api/internal/repository"
)

// ErrCourseNotFound indicates the course is absent or owned by another teacher.
var ErrCourseNotFound = errors.New("course not found")

// FinalGrade maps a progress percentage onto the 1..5 scale. The thresholds
// are a fixed policy, identical for every course.
func FinalGrade(progress float64) int {
	switch {
	case progress >= 85:
		return 5
	case progress >= 70:
		return 4
	case progress >= 55:
		return 3
	case progress >= 40:
		return 2
	default:
		return 1
	}
}

// GradebookService computes the per-course student/assignment grade matrix.
type GradebookService interface {
	GradebookInvalidator
	BuildGradebook(ctx context.Context, courseID, teacherID uint) (dto.GradebookResponse, error)
}

type gradebookService struct {
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	homeworks   repository.HomeworkRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewGradebookService builds the gradebook aggregator.
func NewGradebookService(courses repository.CourseRepository, assignments repository.AssignmentRepository, homeworks repository.HomeworkRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) GradebookService {
	return &gradebookService{
		courses:     courses,
		assignments: assignments,
		homeworks:   homeworks,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "gradebook_service").Logger(),
	}
}

func (s *gradebookService) BuildGradebook(ctx context.Context, courseID, teacherID uint) (dto.GradebookResponse, error) {
	cacheKey := gradebookCacheKey(courseID)

	course, err := s.courses.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradebookResponse{}, ErrCourseNotFound
		}
		return dto.GradebookResponse{}, err
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.GradebookResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("course_id", courseID).Msg("gradebook cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read gradebook cache")
		}
	}

	students, err := s.courses.ListActiveStudents(ctx, courseID)
	if err != nil {
		return dto.GradebookResponse{}, err
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.GradebookResponse{}, err
	}

	homeworks, err := s.homeworks.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.GradebookResponse{}, err
	}

	response := buildGradebook(course, students, assignments, homeworks)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store gradebook cache")
			}
		}
	}

	return response, nil
}

// Invalidate drops the cached gradebook for a course after a grade write.
func (s *gradebookService) Invalidate(ctx context.Context, courseID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, gradebookCacheKey(courseID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to invalidate gradebook cache")
	}
}

func gradebookCacheKey(courseID uint) string {
	return fmt.Sprintf("gradebook:course:%d", courseID)
}

type homeworkKey struct {
	assignmentID uint
	studentID    uint
}

// buildGradebook folds homework and grade records into per-student rows.
// Only graded entries feed the max-points denominator: an ungraded or missing
// homework contributes to neither accumulator. That asymmetry is the
// established product behaviour and is kept as is.
func buildGradebook(course models.Course, students []models.StudentProfile, assignments []models.Assignment, homeworks []models.Homework) dto.GradebookResponse {
	index := make(map[homeworkKey]models.Homework, len(homeworks))
	for _, homework := range homeworks {
		index[homeworkKey{homework.AssignmentID, homework.StudentID}] = homework
	}

	rows := make([]dto.GradebookRow, 0, len(students))
	for _, student := range students {
		row := dto.GradebookRow{
			StudentID: student.ID,
			FullName:  student.FullName(),
			GroupName: student.GroupName(),
			Entries:   make([]dto.GradebookEntry, 0, len(assignments)),
		}

		for _, assignment := range assignments {
			entry := dto.GradebookEntry{
				AssignmentID:    assignment.ID,
				AssignmentTitle: assignment.Title,
				MaxPoints:       assignment.MaxPoints,
				Status:          models.SubmissionNotSubmitted,
			}

			homework, ok := index[homeworkKey{assignment.ID, student.ID}]
			if ok {
				entry.Status = homework.Status
				if grade := homework.CurrentGrade(); homework.IsGraded() && grade != nil {
					points := 0
					if grade.Points != nil {
						points = *grade.Points
					}
					entry.Points = &points
					row.TotalPoints += points
					row.MaxPoints += assignment.MaxPoints
				}
			}

			row.Entries = append(row.Entries, entry)
		}

		if row.MaxPoints > 0 {
			row.Progress = 100 * float64(row.TotalPoints) / float64(row.MaxPoints)
		}
		row.FinalGrade = FinalGrade(row.Progress)

		rows = append(rows, row)
	}

	return dto.GradebookResponse{
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Rows:        rows,
	}
}
