package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/acroconnect/internal/app/controllers"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/middleware"
)

// Controllers groups every handler set mounted by SetupRouter
type Controllers struct {
	Auth           *controllers.AuthController
	User           *controllers.UserController
	Skill          *controllers.SkillController
	StudentProfile *controllers.StudentProfileController
	StudentSkill   *controllers.StudentSkillController
	JobPosting     *controllers.JobPostingController
	Roadmap        *controllers.RoadmapController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.HandleMethodNotAllowed = true
	router.NoMethod(middleware.MethodNotAllowed)
	router.NoRoute(middleware.NotFound)

	api := router.Group("/api")

	// --- Token routes (public) ---
	token := api.Group("/token")
	{
		token.POST("/", c.Auth.ObtainToken)
		token.POST("/refresh/", c.Auth.RefreshToken)
	}

	v1 := api.Group("/v1")

	// Registration is open; an authenticated TPO may also create accounts here
	v1.POST("/users/", authMiddleware.OptionalAuth(), c.User.CreateUser)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		users := authenticated.Group("/users")
		{
			users.GET("/", c.User.ListUsers)
			users.GET("/me/", c.User.GetMe)
			users.GET("/:id/", c.User.GetUserByID)
			users.PATCH("/:id/", c.User.UpdateUser)
			users.DELETE("/:id/", c.User.DeleteUser)
		}

		skills := authenticated.Group("/skills")
		{
			skills.GET("/", c.Skill.ListSkills)
			skills.POST("/", c.Skill.CreateSkill)
			skills.GET("/:id/", c.Skill.GetSkill)
			skills.PATCH("/:id/", c.Skill.UpdateSkill)
			skills.DELETE("/:id/", c.Skill.DeleteSkill)
		}

		profiles := authenticated.Group("/student-profiles")
		{
			profiles.GET("/", c.StudentProfile.ListProfiles)
			profiles.POST("/", c.StudentProfile.CreateProfile)
			profiles.GET("/me/", c.StudentProfile.GetMyProfile)
			profiles.PATCH("/me/", c.StudentProfile.UpdateMyProfile)
			profiles.GET("/:id/", c.StudentProfile.GetProfile)
			profiles.PATCH("/:id/", c.StudentProfile.UpdateProfile)
			profiles.DELETE("/:id/", c.StudentProfile.DeleteProfile)
		}

		skillSets := authenticated.Group("/student-skill-sets")
		{
			skillSets.GET("/", c.StudentSkill.ListSkillSets)
			skillSets.POST("/", c.StudentSkill.CreateSkillSet)
			skillSets.GET("/:id/", c.StudentSkill.GetSkillSet)
			skillSets.PATCH("/:id/", c.StudentSkill.UpdateSkillSet)
			skillSets.DELETE("/:id/", c.StudentSkill.DeleteSkillSet)
		}

		postings := authenticated.Group("/job-postings")
		{
			postings.GET("/", c.JobPosting.ListPostings)
			postings.POST("/", c.JobPosting.CreatePosting)
			postings.GET("/:id/", c.JobPosting.GetPosting)
			postings.PATCH("/:id/", c.JobPosting.UpdatePosting)
			postings.DELETE("/:id/", c.JobPosting.DeletePosting)
		}

		required := authenticated.Group("/required-skills")
		{
			required.GET("/", c.JobPosting.ListRequiredSkills)
			required.POST("/", c.JobPosting.CreateRequiredSkill)
			required.GET("/:id/", c.JobPosting.GetRequiredSkill)
			required.PATCH("/:id/", c.JobPosting.UpdateRequiredSkill)
			required.DELETE("/:id/", c.JobPosting.DeleteRequiredSkill)
		}

		// Roadmaps are immutable: no PATCH route, so gin answers 405
		roadmaps := authenticated.Group("/roadmaps")
		{
			roadmaps.GET("/", c.Roadmap.ListRoadmaps)
			roadmaps.POST("/", c.Roadmap.CreateRoadmap)
			roadmaps.GET("/:id/", c.Roadmap.GetRoadmap)
			roadmaps.DELETE("/:id/", c.Roadmap.DeleteRoadmap)
		}

		authenticated.POST("/generate-roadmap/", c.Roadmap.GenerateRoadmap)
		authenticated.GET("/genai-models/", c.Roadmap.ListModels)
	}

	// Health check endpoint (public)
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})
}
