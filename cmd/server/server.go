package server

import (
	"net/http"
	"time"

	"github.com/mainevents/server/internal/adapters/config"
	"github.com/mainevents/server/internal/adapters/controller/rest"
	"github.com/mainevents/server/internal/adapters/database/memory"
	"github.com/mainevents/server/internal/adapters/database/postgres"
	"github.com/mainevents/server/internal/domain/service"
	"github.com/mainevents/server/pkg/logger"
	"github.com/mainevents/server/pkg/logger/types"
	"github.com/mainevents/server/pkg/smtp"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
	tele "gopkg.in/telebot.v3"
)

// Server wires the storages, services and the REST controller together.
type Server struct {
	httpServer *http.Server

	NotificationService *service.NotificationService
}

type storages struct {
	users         service.UserStorage
	events        service.EventStorage
	attendees     service.EventAttendeeStorage
	favorites     service.EventFavoriteStorage
	comments      service.EventCommentStorage
	reviews       service.ReviewStorage
	notifications service.NotificationStorage
}

func New(cfg *config.Config) (*Server, error) {
	restLogger, err := logger.Named("rest")
	if err != nil {
		return nil, err
	}
	serviceLogger, err := logger.Named("service")
	if err != nil {
		return nil, err
	}

	var s storages
	if cfg.Database != nil {
		s = storages{
			users:         postgres.NewUserStorage(cfg.Database),
			events:        postgres.NewEventStorage(cfg.Database),
			attendees:     postgres.NewEventAttendeeStorage(cfg.Database),
			favorites:     postgres.NewEventFavoriteStorage(cfg.Database),
			comments:      postgres.NewEventCommentStorage(cfg.Database),
			reviews:       postgres.NewReviewStorage(cfg.Database),
			notifications: postgres.NewNotificationStorage(cfg.Database),
		}
	} else {
		mem := memory.NewStorages()
		s = storages{
			users:         mem.Users,
			events:        mem.Events,
			attendees:     mem.Attendees,
			favorites:     mem.Favorites,
			comments:      mem.Comments,
			reviews:       mem.Reviews,
			notifications: mem.Notifications,
		}
	}

	notificationService := service.NewNotificationService(serviceLogger, s.notifications, s.users, buildSenders(serviceLogger)...)
	userService := service.NewUserService(s.users)

	var eventService *service.EventService
	if cfg.Redis != nil {
		eventService = service.NewEventService(serviceLogger, s.events, s.comments, s.favorites, cfg.Redis.Cache, notificationService)
	} else {
		eventService = service.NewEventService(serviceLogger, s.events, s.comments, s.favorites, nil, notificationService)
	}

	attendanceService := service.NewAttendanceService(serviceLogger, s.attendees, s.events, s.users, notificationService)
	reviewService := service.NewReviewService(serviceLogger, s.reviews, s.events, s.attendees)

	var denylist rest.TokenDenylist
	if cfg.Redis != nil {
		denylist = cfg.Redis.Tokens
	}
	jwtManager, err := rest.NewJWTManager(
		viper.GetString("server.jwt-secret"),
		7*24*time.Hour,
		denylist,
	)
	if err != nil {
		return nil, err
	}

	controller := rest.NewController(rest.Options{
		Logger:              restLogger,
		JWT:                 jwtManager,
		RateLimitRPS:        viper.GetFloat64("server.rate-limit.rps"),
		RateLimitBurst:      viper.GetInt("server.rate-limit.burst"),
		UserService:         userService,
		EventService:        eventService,
		AttendanceService:   attendanceService,
		ReviewService:       reviewService,
		NotificationService: notificationService,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + viper.GetString("server.port"),
			Handler:      controller.Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		NotificationService: notificationService,
	}, nil
}

func (s *Server) Start() error {
	logger.Log.Infof("Listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func buildSenders(serviceLogger *types.Logger) []service.ChannelSender {
	var senders []service.ChannelSender

	if host := viper.GetString("service.smtp.host"); host != "" {
		dialer := gomail.NewDialer(
			host,
			viper.GetInt("service.smtp.port"),
			viper.GetString("service.smtp.email"),
			viper.GetString("service.smtp.password"),
		)
		client := smtp.NewClient(dialer,
			viper.GetString("service.smtp.email"),
			viper.GetString("service.smtp.domain"),
		)
		senders = append(senders, service.NewEmailSender(client))
	} else {
		serviceLogger.Warn("smtp not configured, email channel disabled")
	}

	if token := viper.GetString("service.telegram.token"); token != "" {
		bot, err := tele.NewBot(tele.Settings{Token: token})
		if err != nil {
			serviceLogger.Warnf("failed to init telegram bot, push channel disabled: %v", err)
		} else {
			senders = append(senders, service.NewPushSender(bot))
		}
	} else {
		serviceLogger.Warn("telegram not configured, push channel disabled")
	}

	if gatewayURL := viper.GetString("service.sms.gateway-url"); gatewayURL != "" {
		senders = append(senders, service.NewSMSSender(gatewayURL, viper.GetString("service.sms.api-key")))
	} else {
		serviceLogger.Warn("sms gateway not configured, sms channel disabled")
	}

	return senders
}
