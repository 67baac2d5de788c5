package routes

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yoockh/jobboard/internal/api/handlers"
	"github.com/yoockh/jobboard/internal/api/middleware"
	"github.com/yoockh/jobboard/internal/auth"
	"github.com/yoockh/jobboard/internal/models"
	"github.com/yoockh/jobboard/internal/services"
)

type Deps struct {
	Services services.Set
	Tokens   *auth.TokenManager

	// Redis enables the live applications feed; nil disables the route.
	Redis redis.UniversalClient
	// UploadDir is served under /uploads/images when the local store is used.
	UploadDir string

	CORSOrigins    []string
	AuthRatePerMin int
	SecureCookies  bool
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	s := d.Services
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if d.UploadDir != "" {
		r.Static("/uploads/images", filepath.Join(d.UploadDir, "images"))
	}

	protect := middleware.Protect(d.Tokens, s.Auth)
	admin := middleware.RequireAdmin()

	authH := handlers.NewAuthHandler(s.Auth, d.SecureCookies)
	authG := r.Group("/auth")
	if d.AuthRatePerMin > 0 {
		authG.Use(middleware.NewIPLimiter(d.AuthRatePerMin).Middleware())
	}
	authG.POST("/register", authH.Register)
	authG.POST("/login", authH.Login)
	authG.POST("/logout", authH.Logout)
	authG.GET("/me", protect, authH.Me)

	users := handlers.NewUserHandler(s.Users)
	usersG := r.Group("/users", protect)
	usersG.GET("", admin, users.List)
	usersG.GET("/:id", users.Get)
	usersG.PUT("/:id", users.Update)

	registerGeo(r.Group("/continents"), handlers.NewGeoHandler(s.Continents, ""), protect, admin)
	registerGeo(r.Group("/countries"), handlers.NewGeoHandler(s.Countries, "continent"), protect, admin)
	registerGeo(r.Group("/provinces"), handlers.NewGeoHandler(s.Provinces, "country"), protect, admin)
	registerGeo(r.Group("/cities"), handlers.NewGeoHandler(s.Cities, "province"), protect, admin)

	professions := handlers.NewProfessionHandler(s.Professions)
	profG := r.Group("/professions")
	profG.GET("", professions.List)
	profG.GET("/:id", professions.Get)
	profG.POST("", protect, admin, professions.Create)
	profG.PUT("/:id", protect, admin, professions.Update)
	profG.DELETE("/:id", protect, admin, professions.Delete)

	companies := handlers.NewCompanyHandler(s.Companies)
	compG := r.Group("/companies")
	compG.GET("", companies.List)
	compG.GET("/me", protect, companies.Mine)
	compG.GET("/:id", companies.Get)
	compG.POST("", protect, companies.Create)
	compG.PUT("/:id", protect, companies.Update)

	jobs := handlers.NewJobHandler(s.Jobs)
	jobsG := r.Group("/jobs")
	jobsG.GET("", jobs.List)
	jobsG.GET("/my-applications", protect, jobs.MyApplications)
	jobsG.GET("/cv/download", protect, jobs.DownloadCV)
	jobsG.POST("/apply", protect, jobs.Apply)
	jobsG.GET("/:id", jobs.Get)
	jobsG.POST("", protect, jobs.Create)
	jobsG.PUT("/:id", protect, jobs.Update)
	jobsG.POST("/:id/image", protect, jobs.UploadImage)
	jobsG.GET("/:id/applications", protect, jobs.ListApplications)
	jobsG.PUT("/:id/applications/:applicant_id", protect, jobs.ReviewApplication)
	if d.Redis != nil {
		ws := handlers.NewWSHandler(s.Jobs, d.Redis, originChecker(d.CORSOrigins))
		jobsG.GET("/:id/ws", protect, ws.Applications)
	}

	pros := handlers.NewProfessionalHandler(s.Professionals)
	proG := r.Group("/professionals")
	proG.GET("", pros.List)
	proG.GET("/me", protect, pros.Mine)
	proG.POST("/upload-cv", protect, pros.UploadCV)
	proG.GET("/:id", pros.Get)
	proG.GET("/:id/cv", protect, middleware.Authorize(models.RoleCompany, models.RoleAdmin), pros.DownloadCV)
	proG.POST("", protect, pros.Create)
	proG.PUT("/:id", protect, pros.Update)
	proG.POST("/:id/claim", protect, pros.Claim)

	trainees := handlers.NewTraineeHandler(s.Trainees)
	trG := r.Group("/trainees")
	trG.GET("", trainees.List)
	trG.GET("/me", protect, trainees.Mine)
	trG.GET("/:id", trainees.Get)
	trG.POST("", protect, trainees.Create)
	trG.PUT("/:id", protect, trainees.Update)
}

type geoRoutes interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
}

func registerGeo(g *gin.RouterGroup, h geoRoutes, protect, admin gin.HandlerFunc) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", protect, admin, h.Create)
	g.PUT("/:id", protect, admin, h.Update)
}

func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		return o == "" || allowed[o]
	}
}
