package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/anikeev-dev/gradehub-api/internal/config"
	"github.com/anikeev-dev/gradehub-api/internal/handler"
	"github.com/anikeev-dev/gradehub-api/internal/middleware"
	"github.com/anikeev-dev/gradehub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	AssignmentHandler *handler.AssignmentHandler
	HomeworkHandler   *handler.HomeworkHandler
	StudentHandler    *handler.StudentHandler
	GradingHandler    *handler.GradingHandler
	DashboardHandler  *handler.DashboardHandler
	ActivityHandler   *handler.ActivityHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	teacherOnly := middleware.RequireRole("teacher")

	if deps.CourseHandler != nil {
		courses := app.Group("/api/v2/courses", jwtMiddleware, teacherOnly)
		deps.CourseHandler.Register(courses)
	}

	if deps.AssignmentHandler != nil {
		assignments := app.Group("/api/v2/assignments", jwtMiddleware, teacherOnly)
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.HomeworkHandler != nil {
		homeworks := app.Group("/api/v2/homeworks", jwtMiddleware, teacherOnly)
		deps.HomeworkHandler.Register(homeworks)

		if deps.GradingHandler != nil {
			graded := app.Group("/api/v2/homeworks", jwtMiddleware, teacherOnly,
				middleware.RateLimit("grading", 30, time.Minute))
			deps.GradingHandler.Register(graded)
		}
	}

	if deps.StudentHandler != nil {
		students := app.Group("/api/v2/students", jwtMiddleware, teacherOnly)
		deps.StudentHandler.RegisterStudents(students)

		groups := app.Group("/api/v2/groups", jwtMiddleware, teacherOnly)
		deps.StudentHandler.RegisterGroups(groups)
	}

	if deps.DashboardHandler != nil || deps.ActivityHandler != nil {
		teacher := app.Group("/api/v2/teacher", jwtMiddleware, teacherOnly)
		if deps.DashboardHandler != nil {
			deps.DashboardHandler.Register(teacher)
		}
		if deps.ActivityHandler != nil {
			deps.ActivityHandler.Register(teacher)
		}
	}
}
