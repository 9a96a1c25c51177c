package dto

// GradebookEntry is one cell of the student/assignment grade matrix.
type GradebookEntry struct {
	AssignmentID    uint   `json:"assignment_id"`
	AssignmentTitle string `json:"assignment_title"`
	Points          *int   `json:"points"`
	MaxPoints       int    `json:"max_points"`
	Status          string `json:"status"`
}

// GradebookRow aggregates one student's results across the course.
type GradebookRow struct {
	StudentID   uint             `json:"student_id"`
	FullName    string           `json:"full_name"`
	GroupName   string           `json:"group_name"`
	Entries     []GradebookEntry `json:"entries"`
	TotalPoints int              `json:"total_points"`
	MaxPoints   int              `json:"max_points"`
	Progress    float64          `json:"progress"`
	FinalGrade  int              `json:"final_grade"`
}

// GradebookResponse is the aggregated grade matrix for a course.
type GradebookResponse struct {
	CourseID    uint           `json:"course_id"`
	CourseTitle string         `json:"course_title"`
	Rows        []GradebookRow `json:"rows"`
}
