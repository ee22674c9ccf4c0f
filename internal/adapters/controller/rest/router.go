package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/mainevents/server/internal/domain/service"
	"github.com/mainevents/server/pkg/logger/types"
)

type Controller struct {
	logger   *types.Logger
	validate *validator.Validate
	jwt      *JWTManager
	limiter  *rateLimiter

	userService         *service.UserService
	eventService        *service.EventService
	attendanceService   *service.AttendanceService
	reviewService       *service.ReviewService
	notificationService *service.NotificationService
}

type Options struct {
	Logger              *types.Logger
	JWT                 *JWTManager
	RateLimitRPS        float64
	RateLimitBurst      int
	UserService         *service.UserService
	EventService        *service.EventService
	AttendanceService   *service.AttendanceService
	ReviewService       *service.ReviewService
	NotificationService *service.NotificationService
}

func NewController(opts Options) *Controller {
	return &Controller{
		logger:              opts.Logger,
		validate:            validator.New(validator.WithRequiredStructEnabled()),
		jwt:                 opts.JWT,
		limiter:             newRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		userService:         opts.UserService,
		eventService:        opts.EventService,
		attendanceService:   opts.AttendanceService,
		reviewService:       opts.ReviewService,
		notificationService: opts.NotificationService,
	}
}

// Router assembles the API routes. Reads are public (with optional
// personalization), everything that mutates requires auth.
func (c *Controller) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(c.logger))
	r.Use(c.RateLimit)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", c.Register)
		r.Post("/login", c.Login)

		r.Group(func(r chi.Router) {
			r.Use(c.Authenticate)
			r.Post("/logout", c.Logout)
			r.Get("/me", c.Me)
			r.Post("/telegram", c.LinkTelegram)
		})
	})

	r.Route("/api/events", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(c.OptionalAuth)
			r.Get("/all", c.ListEvents)
			r.Get("/featured", c.FeaturedEvents)
			r.Get("/{id}", c.GetEvent)
			r.Get("/{id}/comments", c.ListComments)
			r.Get("/{id}/reviews", c.ListReviews)
		})

		r.Group(func(r chi.Router) {
			r.Use(c.Authenticate)
			r.Post("/", c.CreateEvent)
			r.Put("/{id}", c.UpdateEvent)
			r.Delete("/{id}", c.DeleteEvent)
			r.Post("/{id}/cancel", c.CancelEvent)
			r.Post("/attend/{id}", c.Attend)
			r.Delete("/attend/{id}", c.CancelAttendance)
			r.Post("/favorite", c.ToggleFavorite)
			r.Post("/comment", c.CreateComment)
			r.Get("/{id}/ticket", c.TicketQR)
			r.Get("/{id}/attendees/export", c.ExportAttendees)
		})
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(c.Authenticate)
		r.Post("/", c.CreateReview)
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(c.Authenticate)
		r.Get("/", c.ListNotifications)
		r.Get("/unread-count", c.UnreadCount)
		r.Post("/", c.CreateNotification)
		r.Patch("/{id}/read", c.MarkNotificationRead)
		r.Patch("/{id}/archive", c.ArchiveNotification)
		r.Post("/cleanup", c.CleanupNotifications)
	})

	return r
}
