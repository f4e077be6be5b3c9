// Package server exposes the tutor and the learner state over HTTP. Tutor
// replies are streamed as server-sent events.
package server

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/abhisek/lingua/internal/achievements"
	"github.com/abhisek/lingua/internal/backup"
	"github.com/abhisek/lingua/internal/chat"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/tutor"
	"github.com/abhisek/lingua/internal/vocab"
)

// Options configures a Server.
type Options struct {
	Tutor   *tutor.Service
	Learner *learner.Service
	Backup  *backup.Service

	// Logger receives one line per request. Nil discards.
	Logger *log.Logger

	// AllowOrigins is the CORS origin list. Empty means "*".
	AllowOrigins string

	Version string
}

// Server is the HTTP front end.
type Server struct {
	app     *fiber.App
	tutor   *tutor.Service
	learner *learner.Service
	backup  *backup.Service
	logger  *log.Logger
	version string
	now     func() time.Time
}

// New builds the fiber app and registers every route.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	origins := opts.AllowOrigins
	if origins == "" {
		origins = "*"
	}

	s := &Server{
		tutor:   opts.Tutor,
		learner: opts.Learner,
		backup:  opts.Backup,
		logger:  logger,
		version: opts.Version,
		now:     time.Now,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "lingua",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	s.app.Use(LoggingMiddleware(logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")
	api.Get("/health", s.health)

	api.Post("/chat", s.chat)
	api.Post("/assess", s.assess)
	api.Post("/quiz", s.quiz)
	api.Post("/learn", s.learn)

	api.Get("/profiles", s.listProfiles)
	api.Post("/profiles", s.createProfile)
	api.Put("/profiles/active", s.setActiveLanguage)
	api.Get("/profiles/:lang", s.getProfile)
	api.Put("/profiles/:lang/level", s.updateLevel)
	api.Post("/profiles/:lang/xp", s.addXP)

	api.Get("/vocabulary/:lang", s.listVocab)
	api.Post("/vocabulary/:lang", s.addVocab)
	api.Get("/vocabulary/:lang/due", s.dueVocab)
	api.Get("/vocabulary/:lang/stats", s.vocabStats)
	api.Post("/vocabulary/:lang/:id/review", s.reviewVocab)
	api.Delete("/vocabulary/:lang/:id", s.removeVocab)

	api.Get("/sessions", s.listSessions)
	api.Get("/sessions/:id", s.getSession)
	api.Delete("/sessions/:id", s.clearSession)

	api.Get("/achievements", s.listAchievements)
	api.Get("/stats", s.stats)
	api.Get("/report", s.report)

	api.Get("/backup", s.exportBackup)
	api.Post("/backup", s.importBackup)
	api.Post("/reset", s.reset)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Printf("listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for open requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, progress.ErrNoProfile),
		errors.Is(err, vocab.ErrWordNotFound),
		errors.Is(err, chat.ErrSessionNotFound),
		errors.Is(err, achievements.ErrUnknownAchievement):
		return fiber.StatusNotFound
	case errors.Is(err, backup.ErrUnsupportedVersion):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, progress.ErrNegativeXP),
		errors.Is(err, tutor.ErrEmptyMessage),
		errors.Is(err, learner.ErrNothingToReview):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}
