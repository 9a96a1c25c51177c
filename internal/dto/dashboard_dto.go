package dto

// RewardStatus describes one achievement rule and whether it is unlocked.
type RewardStatus struct {
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Achieved bool   `json:"achieved"`
}

// TeacherDashboardResponse summarizes a teacher's courses, grading workload
// and gamification tallies. Recomputed on every request, never persisted.
type TeacherDashboardResponse struct {
	CourseCount     int              `json:"course_count"`
	GradedCount     int              `json:"graded_count"`
	PendingCount    int              `json:"pending_count"`
	TotalPoints     int              `json:"total_points"`
	AchievedRewards int              `json:"achieved_rewards"`
	Rewards         []RewardStatus   `json:"rewards"`
	Courses         []CourseResponse `json:"courses"`
}
