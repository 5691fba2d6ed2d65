package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/in-nis/matura-back/docs"
	"github.com/in-nis/matura-back/internal/auth"
	"github.com/in-nis/matura-back/internal/config"
	"github.com/in-nis/matura-back/internal/console"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/httpx"
	"github.com/in-nis/matura-back/internal/models"
	"github.com/in-nis/matura-back/internal/tutoring"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Store    *db.Store
	Auth     *auth.Service
	Tutoring *tutoring.Service
	Console  *console.Console
}

// limitBody caps request bodies at n bytes.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// @title           Matura API
// @version         1.0
// @description     Backend of the matura tutoring platform: lessons, task bank, assignments and materials.
// @host            localhost:8000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	h := NewHandler(deps.Tutoring, deps.Auth, deps.Console)

	r := gin.Default()
	r.Use(limitBody(cfg.MaxUploadBytes))
	r.Static("/static/avatars", cfg.AvatarDir)
	r.Static("/static/uploads/zadania", cfg.UploadDir)

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		if err := deps.Store.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "db_ping_error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/login", deps.Auth.LoginHandler())
	r.GET("/logout", deps.Auth.LogoutHandler())
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, httpx.DashboardPath)
	})

	// Protected
	authed := r.Group("/")
	authed.Use(deps.Auth.Middleware())
	{
		authed.GET("/dashboard", h.Dashboard)
		authed.GET("/me", h.GetMe)
		authed.GET("/profile", h.GetMe)
		authed.POST("/profile", h.UpdateProfile)
		authed.GET("/catalog", h.GetCatalog)

		authed.GET("/notifications", h.GetNotifications)
		authed.POST("/notifications/read", h.MarkNotificationsRead)

		authed.GET("/lekcje", h.ListLessons)
		authed.GET("/lekcje/:id", h.GetLesson)
		// Role and roster checks for lesson tasks happen in the service.
		authed.GET("/lekcje/:id/zadania/:tid", h.GetLessonTask)
		authed.POST("/lekcje/:id/zadania/:tid", h.SubmitLessonTask)
		authed.POST("/lekcje/:id/notatka", auth.RequireRole(models.RoleStudent), h.UpsertNote)

		authed.GET("/materials", h.ListMaterials)
		authed.GET("/materials/:id", h.GetMaterial)
		authed.GET("/vocabulary", h.GetVocabulary)
	}

	student := authed.Group("/")
	student.Use(auth.RequireRole(models.RoleStudent))
	{
		student.GET("/panel/student", h.StudentPanel)
		student.GET("/student/zadania", h.StudentTaskTree)
		student.GET("/task/:id", h.ResolveTask)
		student.POST("/task/:id/submit", h.SubmitClosedAnswer)
	}

	teacher := authed.Group("/")
	teacher.Use(auth.RequireRole(models.RoleTeacher))
	{
		teacher.GET("/panel/teacher", h.Panel)
		teacher.GET("/panel/teacher/assign", h.GetAssignPage)
		teacher.POST("/panel/teacher/assign", h.AssignTasks)

		teacher.POST("/lekcje", h.CreateLesson)
		teacher.POST("/lekcje/:id/edit", h.UpdateLesson)
		teacher.GET("/lekcje/:id/zadania", h.GetLessonTasks)
		teacher.POST("/lekcje/:id/zadania", h.LinkTasks)

		teacher.GET("/users", h.ListUsers)
		teacher.POST("/users", h.CreateUser)
		teacher.POST("/users/dodaj", h.CreateUser)

		teacher.GET("/zadania", h.ListTasks)
		teacher.POST("/zadania", h.CreateTask)
		teacher.GET("/zadania/dodaj", h.GetCatalog)
		teacher.POST("/zadania/dodaj", h.CreateTask)
		teacher.POST("/zadania/import", h.ImportTasks)
		teacher.GET("/teacher/task/:id", h.PreviewTask)
		teacher.POST("/teacher/task/:id/edit", h.EditTask)

		teacher.GET("/materials/add", h.GetCatalog)
		teacher.POST("/materials/add", h.AddMaterial)
	}

	admin := authed.Group("/")
	admin.Use(auth.RequireRole(models.RoleAdmin))
	{
		admin.GET("/panel/admin", h.Panel)
		admin.POST("/baza", h.RunQuery)
		admin.GET("/baza/tabele", h.ListTables)
		admin.GET("/baza/tabele/:name", h.PreviewTable)
	}

	return r
}
