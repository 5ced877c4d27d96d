// Package server contains the HTTP handlers for the site's server-rendered pages.
package server

import (
	"context"
	"fmt"
	"time"

	"creatorr/internal/cache"
	"creatorr/internal/config"
	"creatorr/internal/database"
	"creatorr/internal/mailer"
	"creatorr/internal/middleware"
	"creatorr/internal/repository"
	"creatorr/internal/service"
	"creatorr/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	sessions *session.Store
	flash    *session.Flash
	mail     mailer.Mailer

	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	templateRepo repository.TemplateRepository

	postService *service.PostService
	userService *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient(), mailer.NewSMTP(cfg))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Used by tests and by bootstrap layers that establish DB/Redis themselves.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mail mailer.Mailer) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	prom := middleware.InitMetrics("creatorr")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		sessions:       session.NewStore(redisClient, time.Duration(cfg.SessionTTLMinutes)*time.Minute),
		flash:          session.NewFlash(redisClient),
		mail:           mail,
		userRepo:       userRepo,
		postRepo:       postRepo,
		categoryRepo:   categoryRepo,
		templateRepo:   templateRepo,
	}
	server.postService = service.NewPostService(postRepo, templateRepo)
	server.userService = service.NewUserService(userRepo, postRepo, cfg.BcryptCost)

	return server, nil
}

// BuildApp constructs the Fiber application with the view engine, middleware
// and routes attached.
func (s *Server) BuildApp() *fiber.App {
	engine := html.New(s.config.ViewsDir, ".html")
	engine.AddFunc("add", func(a, b int) int { return a + b })
	engine.AddFunc("sub", func(a, b int) int { return a - b })

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: s.errorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	s.app = app
	return app
}

// App returns the underlying Fiber app, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app == nil {
		return s.BuildApp()
	}
	return s.app
}

// Listen starts serving on the configured port.
func (s *Server) Listen() error {
	return s.App().Listen(":" + s.config.Port)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Uploaded images and site assets
	app.Static("/images", s.config.UploadDir)
	if s.config.StaticDir != "" {
		app.Static("/css", s.config.StaticDir+"/css")
		app.Static("/js", s.config.StaticDir+"/js")
	}

	// Global rate limiting (300 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				SendString("Too many requests, please try again later.")
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public pages
	app.Get("/", s.Home)
	app.Get("/categories", s.Categories)
	app.Get("/category/:name", s.CategoryFeed)
	app.Get("/category/:name/searchCategories", s.CategorySearch)
	app.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "search"), s.Search)
	app.Get("/about", s.About)
	app.Get("/contact", s.ContactPage)

	// Post detail routes; /posts/edit must register before /posts/:id
	app.Get("/posts/edit/:id", s.requireAuth(), s.EditPostPage)
	app.Get("/posts/:id", s.PostDetail)
	app.Post("/posts/:id/comment", s.AddComment)
	app.Post("/posts/:id/report", s.ReportPost)

	// Auth flows
	app.Get("/login", s.redirectIfSignedIn(), s.LoginPage)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)
	app.Get("/register", s.redirectIfSignedIn(), s.RegisterPage)
	app.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	app.Post("/registerOTP", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register_otp"), s.ResendRegisterOTP)
	app.Post("/otpCheck", s.OTPCheck)
	app.Get("/resetPass", s.ResetPasswordPage)
	app.Post("/emailVerify", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "email_verify"), s.EmailVerify)
	app.Post("/passwordReset", s.PasswordReset)

	// Signed-in pages
	authed := app.Group("", s.requireAuth())
	authed.Get("/authUser/dashboard", s.Dashboard)
	authed.Get("/authUser/posts", s.MyPosts)
	authed.Get("/authUser/profile", s.ProfilePage)
	authed.Get("/searchPost", s.MyPostsSearch)
	authed.Post("/authUser/posts", s.CreateDraft)
	authed.Post("/templateChoice", s.TemplateChoice)
	authed.Post("/previewTemplate", s.PreviewTemplate)
	authed.Post("/upload", s.UpdatePost)
	authed.Post("/delete", s.DeletePost)
	authed.Post("/profile", s.UpdateProfile)
	authed.Post("/deleteAccount", s.DeleteAccount)
	authed.Post("/contact", s.ContactSend)

	// Moderation, gated on the reserved admin identity
	admin := app.Group("/admin", s.adminRequired())
	admin.Get("/", s.AdminHome)
	admin.Get("/users", s.AdminUsers)
	admin.Get("/posts", s.AdminPosts)
	admin.Get("/categories", s.AdminCategories)
	admin.Get("/categories/:id", s.AdminCategoryEdit)
	admin.Get("/reportedPosts", s.AdminReportedPosts)
	admin.Post("/addCategory", s.AdminAddCategory)

	app.Post("/adminDelete", s.adminRequired(), s.AdminDeletePost)
	app.Post("/admindeleteAccount", s.adminRequired(), s.AdminDeleteAccount)
	app.Post("/updateCat/:id/update", s.adminRequired(), s.AdminUpdateCategory)
	app.Post("/adminCatDelete", s.adminRequired(), s.AdminDeleteCategory)
	app.Post("/reportDelete", s.adminRequired(), s.AdminReportDelete)
	app.Post("/reportVerify", s.adminRequired(), s.AdminReportVerify)
}

// errorHandler is the app-level fallback for errors that escape a handler.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error",
		"path", c.Path(), "error", err)

	return c.Status(code).Render("user/error", fiber.Map{
		"message":   "Something went wrong. Please try again.",
		"isSession": false,
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// sessions degrade to process memory without Redis
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
