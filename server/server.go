package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"unilance/middlewares"
	"unilance/providers"
	authprovider "unilance/providers/authProvider"
	configprovider "unilance/providers/configProvider"
	databaseprovider "unilance/providers/databaseProvider"
	loggerprovider "unilance/providers/loggerProvider"
	mailprovider "unilance/providers/mailProvider"
	pushprovider "unilance/providers/pushProvider"
	redisprovider "unilance/providers/redisProvider"
	storageprovider "unilance/providers/storageProvider"
	"unilance/realtime"
	accountservice "unilance/services/account"
	applicationservice "unilance/services/application"
	notificationservice "unilance/services/notification"
	profileservice "unilance/services/profile"
	projectservice "unilance/services/project"
)

type Server struct {
	Config     providers.ConfigProvider
	Logger     providers.ZapLoggerProvider
	DB         providers.DBProvider
	Redis      providers.RedisProvider
	Middleware *middlewares.Service
	Realtime   *realtime.Client

	AccountHandler      *accountservice.AccountHandler
	ProfileHandler      *profileservice.ProfileHandler
	ProjectHandler      *projectservice.ProjectHandler
	ApplicationHandler  *applicationservice.ApplicationHandler
	NotificationHandler *notificationservice.NotificationHandler

	httpServer   *http.Server
	realtimeStop context.CancelFunc
	realtimeDone chan struct{}
}

// ServerInit wires providers, repositories, services and handlers in
// dependency order. Hard failures here are fatal: the process has nothing
// useful to do without its platform connections.
func ServerInit() *Server {
	cfgProvider := configprovider.NewConfigProvider()
	if err := cfgProvider.LoadEnv(); err != nil {
		log.Fatalf("failed to load configuration: %+v", err)
	}
	cfg := cfgProvider.GetConfig()

	logProvider := loggerprovider.NewLogProvider(cfg.Server.Env)
	logProvider.InitLogger()
	lg := logProvider.GetLogger()

	db := databaseprovider.NewDBProvider(cfg.Database.URL)

	var redis providers.RedisProvider
	if cfg.Redis.Addr != "" {
		redis = redisprovider.NewRedisProvider(cfg.Redis)
	}

	sessions := middlewares.NewSessionService(cfg.Sessions)
	auth := authprovider.NewAuthProvider(cfg.Platform)
	storage := storageprovider.NewStorageProvider(cfg.Platform)

	mail, err := mailprovider.NewMailProvider(cfg.Mail, lg)
	if err != nil {
		lg.Fatal("failed to initialize mail provider", zap.Error(err))
	}
	push, err := pushprovider.NewPushProvider(context.Background(), cfg.Push.CredentialsFile)
	if err != nil {
		lg.Fatal("failed to initialize push provider", zap.Error(err))
	}

	middleware := middlewares.NewMiddlewareService(cfg, lg, redis, sessions, auth)

	// repositories
	profileRepo := profileservice.NewProfileRepository(db.DB())
	projectRepo := projectservice.NewProjectRepository(db.DB())
	applicationRepo := applicationservice.NewApplicationRepository(db.DB())
	notificationRepo := notificationservice.NewNotificationRepository(db.DB())

	// services
	accountService := accountservice.NewAccountService(auth, lg)
	profileService := profileservice.NewProfileService(profileRepo, storage, cfg.Platform.StorageBucket, lg)
	projectService := projectservice.NewProjectService(projectRepo, lg)
	applicationService := applicationservice.NewApplicationService(applicationRepo, projectRepo, lg)
	notificationService := notificationservice.NewNotificationService(
		notificationRepo, push, mail, auth, cfg.Server.AppURL, lg)

	// handlers
	accountHandler := accountservice.NewAccountHandler(accountService, sessions, lg)
	profileHandler := profileservice.NewProfileHandler(profileService, middleware)
	projectHandler := projectservice.NewProjectHandler(projectService, middleware)
	applicationHandler := applicationservice.NewApplicationHandler(applicationService, middleware)
	notificationHandler := notificationservice.NewNotificationHandler(notificationService, middleware)

	// The dispatcher turns committed application rows into notifications; the
	// realtime client feeds it from the platform's change stream.
	dispatcher := notificationservice.NewDispatcher(notificationService, projectRepo, profileRepo, lg)
	rt := realtime.New(realtime.Config{
		URL:    cfg.Platform.RealtimeURL(),
		APIKey: cfg.Platform.AnonKey,
		Logger: lg,
	}, dispatcher.Subscriptions(), dispatcher.HandleChange)

	return &Server{
		Config:              cfgProvider,
		Logger:              logProvider,
		DB:                  db,
		Redis:               redis,
		Middleware:          middleware,
		Realtime:            rt,
		AccountHandler:      accountHandler,
		ProfileHandler:      profileHandler,
		ProjectHandler:      projectHandler,
		ApplicationHandler:  applicationHandler,
		NotificationHandler: notificationHandler,
	}
}

func (s *Server) Start() {
	lg := s.Logger.GetLogger()

	rtCtx, cancel := context.WithCancel(context.Background())
	s.realtimeStop = cancel
	s.realtimeDone = make(chan struct{})
	go func() {
		defer close(s.realtimeDone)
		if err := s.Realtime.Run(rtCtx); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error("realtime client stopped", zap.Error(err))
		}
	}()

	addr := ":" + s.Config.GetConfig().Server.Port
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.InjectRoutes(),
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	lg.Info("server running", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("server error", zap.Error(err))
	}
}

// Stop drains the HTTP server, then closes the realtime client and the
// providers in reverse construction order.
func (s *Server) Stop() {
	lg := s.Logger.GetLogger()
	lg.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			lg.Error("error shutting down http server", zap.Error(err))
		}
	}

	if err := s.Realtime.Close(); err != nil {
		lg.Error("error closing realtime client", zap.Error(err))
	}
	if s.realtimeStop != nil {
		s.realtimeStop()
	}
	if s.realtimeDone != nil {
		select {
		case <-s.realtimeDone:
		case <-ctx.Done():
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			lg.Error("error closing redis", zap.Error(err))
		}
	}
	if err := s.DB.Close(); err != nil {
		lg.Error("error closing database", zap.Error(err))
	}

	lg.Info("server shutdown complete")
	s.Logger.SyncLogger()
}
