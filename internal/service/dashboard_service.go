package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/anikeev-dev/gradehub-api/internal/dto"
	"github.com/anikeev-dev/gradehub-api/internal/models"
	"github.com/anikeev-dev/gradehub-api/internal/repository"
)

// Achievement rules: each is evaluated independently and they accumulate.
var achievementRules = []struct {
	name    string
	points  int
	applies func(courseCount, gradedCount int) bool
}{
	{"first course created", 50, func(courses, _ int) bool { return courses >= 1 }},
	{"ten homeworks graded", 30, func(_, graded int) bool { return graded >= 10 }},
	{"three courses running", 75, func(courses, _ int) bool { return courses >= 3 }},
}

// ScoreTeacher derives the gamification tallies from course and grading
// counts. Pure; recomputed on every dashboard view.
func ScoreTeacher(courseCount, gradedCount int) (totalPoints, achievedRewards int) {
	for _, rule := range achievementRules {
		if rule.applies(courseCount, gradedCount) {
			totalPoints += rule.points
			achievedRewards++
		}
	}
	return totalPoints, achievedRewards
}

// TeacherDashboardService aggregates a teacher's workload and rewards.
type TeacherDashboardService interface {
	GetDashboard(ctx context.Context, teacherID uint) (dto.TeacherDashboardResponse, error)
}

type teacherDashboardService struct {
	courses repository.CourseRepository
	grading repository.GradingRepository
	logger  zerolog.Logger
}

// NewTeacherDashboardService builds the teacher dashboard aggregator.
func NewTeacherDashboardService(courses repository.CourseRepository, grading repository.GradingRepository, logger zerolog.Logger) TeacherDashboardService {
	return &teacherDashboardService{
		courses: courses,
		grading: grading,
		logger:  logger.With().Str("component", "teacher_dashboard_service").Logger(),
	}
}

func (s *teacherDashboardService) GetDashboard(ctx context.Context, teacherID uint) (dto.TeacherDashboardResponse, error) {
	courses, err := s.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	gradedCount, err := s.grading.CountByStatusForTeacher(ctx, teacherID, models.HomeworkStatusGraded)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	pendingCount, err := s.grading.CountByStatusForTeacher(ctx, teacherID, models.HomeworkStatusSubmitted)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	courseCount := len(courses)
	totalPoints, achievedRewards := ScoreTeacher(courseCount, int(gradedCount))

	rewards := make([]dto.RewardStatus, 0, len(achievementRules))
	for _, rule := range achievementRules {
		rewards = append(rewards, dto.RewardStatus{
			Name:     rule.name,
			Points:   rule.points,
			Achieved: rule.applies(courseCount, int(gradedCount)),
		})
	}

	return dto.TeacherDashboardResponse{
		CourseCount:     courseCount,
		GradedCount:     int(gradedCount),
		PendingCount:    int(pendingCount),
		TotalPoints:     totalPoints,
		AchievedRewards: achievedRewards,
		Rewards:         rewards,
		Courses:         dto.NewCourseResponseSlice(courses),
	}, nil
}
