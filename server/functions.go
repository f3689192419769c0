package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"unilance/functions"
	"unilance/middlewares"
	"unilance/providers"
	authprovider "unilance/providers/authProvider"
	configprovider "unilance/providers/configProvider"
	databaseprovider "unilance/providers/databaseProvider"
	loggerprovider "unilance/providers/loggerProvider"
	mailprovider "unilance/providers/mailProvider"
	pushprovider "unilance/providers/pushProvider"
	redisprovider "unilance/providers/redisProvider"
	notificationservice "unilance/services/notification"
	"unilance/utils"
)

// FunctionsServer hosts the platform functions in their own process. It
// shares the middleware set and providers with the API server; only the
// chain it assembles is smaller.
type FunctionsServer struct {
	Config     providers.ConfigProvider
	Logger     providers.ZapLoggerProvider
	DB         providers.DBProvider
	Redis      providers.RedisProvider
	Middleware *middlewares.Service
	Handler    *functions.Handler

	httpServer *http.Server
}

func FunctionsInit() *FunctionsServer {
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

	mail, err := mailprovider.NewMailProvider(cfg.Mail, lg)
	if err != nil {
		lg.Fatal("failed to initialize mail provider", zap.Error(err))
	}
	push, err := pushprovider.NewPushProvider(context.Background(), cfg.Push.CredentialsFile)
	if err != nil {
		lg.Fatal("failed to initialize push provider", zap.Error(err))
	}

	middleware := middlewares.NewMiddlewareService(cfg, lg, redis, sessions, auth)
	tokens := notificationservice.NewNotificationRepository(db.DB())

	return &FunctionsServer{
		Config:     cfgProvider,
		Logger:     logProvider,
		DB:         db,
		Redis:      redis,
		Middleware: middleware,
		Handler:    functions.NewHandler(tokens, push, mail, lg),
	}
}

func (s *FunctionsServer) InjectRoutes() *chi.Mux {
	cfg := s.Config.GetConfig()
	r := chi.NewRouter()

	r.Use(s.Middleware.RequestID())
	r.Use(s.Middleware.RequestLogger())
	r.Use(chimiddleware.Recoverer)
	r.Use(s.Middleware.SecurityHeaders())

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := s.DB.DB().PingContext(req.Context()); err != nil {
			utils.RespondError(w, http.StatusServiceUnavailable, err, "database unreachable")
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/functions/v1", func(fn chi.Router) {
		fn.Use(s.Middleware.RateLimit("functions", cfg.Server.APIRateLimit))
		fn.Use(s.Middleware.FunctionSecret())

		fn.Post("/notify", s.Handler.Notify)
		fn.Post("/send-email", s.Handler.SendEmail)
	})

	return r
}

func (s *FunctionsServer) Start() {
	lg := s.Logger.GetLogger()

	addr := ":" + s.Config.GetConfig().Functions.Port
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.InjectRoutes(),
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		IdleTimeout:  time.Minute,
	}

	lg.Info("function host running", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("function host error", zap.Error(err))
	}
}

func (s *FunctionsServer) Stop() {
	lg := s.Logger.GetLogger()
	lg.Info("shutting down function host...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			lg.Error("error shutting down http server", zap.Error(err))
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

	lg.Info("function host shutdown complete")
	s.Logger.SyncLogger()
}
