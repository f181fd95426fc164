package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"assetTracker/internal/config"
	"assetTracker/internal/handlers"
	"assetTracker/internal/logger"
	"assetTracker/internal/middleware"
	"assetTracker/internal/models"
	"assetTracker/internal/notify"
	"assetTracker/internal/realtime"
	"assetTracker/internal/repository/inmemory"
	"assetTracker/internal/repository/postgres"
	"assetTracker/internal/service"
	"assetTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	hub       *realtime.Hub
	listener  *realtime.Listener
	worker    *worker.SprintWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	var (
		assetRepo        service.AssetRepository
		modelReqRepo     service.RequestRepository
		featureReqRepo   service.RequestRepository
		eventRepo        service.EventRepository
		sprintRepo       service.SprintRepository
		commentRepo      service.CommentRepository
		profileRepo      service.ProfileRepository
		notificationRepo service.NotificationRepository
	)

	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database.URL,
			a.config.Database.MaxConnections, a.config.Database.MinConnections,
			a.config.Database.IdleTimeout)
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений...")
			storage.Close()
		})

		if err := storage.Migrate(); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}

		assetRepo = postgres.NewAssetRepo(storage)
		modelReqRepo = postgres.NewRequestRepo(storage, models.ModelRequestKind)
		featureReqRepo = postgres.NewRequestRepo(storage, models.FeatureRequestKind)
		eventRepo = postgres.NewEventRepo(storage)
		sprintRepo = postgres.NewSprintRepo(storage)
		commentRepo = postgres.NewCommentRepo(storage)
		profileRepo = postgres.NewProfileRepo(storage)
		notificationRepo = postgres.NewNotificationRepo(storage)

		a.hub = realtime.NewHub()
		a.listener = realtime.NewListener(storage.ConnString(), a.hub)

	case "inmemory":
		assetRepo = inmemory.NewAssetStorage()
		modelReqRepo = inmemory.NewRequestStorage()
		featureReqRepo = inmemory.NewRequestStorage()
		eventRepo = inmemory.NewEventStorage()
		sprintRepo = inmemory.NewSprintStorage()
		commentRepo = inmemory.NewCommentStorage()
		profileRepo = inmemory.NewProfileStorage()
		notificationRepo = inmemory.NewNotificationStorage()

		// без postgres нет LISTEN/NOTIFY, hub работает вхолостую
		a.hub = realtime.NewHub()

	default:
		return fmt.Errorf("неизвестный тип репозитория: %s", a.config.Repository.Type)
	}

	center := notify.NewCenter(notificationRepo)

	assetService := service.NewAssetService(assetRepo, eventRepo, modelReqRepo, featureReqRepo, center)
	sprintService := service.NewSprintService(sprintRepo, assetRepo)
	assetService.SetSprintRecomputer(sprintService)

	modelReqService := service.NewRequestService(models.ModelRequestKind, modelReqRepo, assetRepo, center)
	featureReqService := service.NewRequestService(models.FeatureRequestKind, featureReqRepo, assetRepo, center)
	eventService := service.NewEventService(eventRepo, assetRepo, assetService, center)
	commentService := service.NewCommentService(commentRepo, assetRepo, sprintRepo, center)
	profileService := service.NewProfileService(profileRepo, assetRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	assetHandler := handlers.NewAssetHandler(assetService, sprintService)
	modelReqHandler := handlers.NewRequestHandler(modelReqService, "model_request")
	featureReqHandler := handlers.NewRequestHandler(featureReqService, "feature_request")
	eventHandler := handlers.NewEventHandler(eventService)
	sprintHandler := handlers.NewSprintHandler(sprintService)
	commentHandler := handlers.NewCommentHandler(commentService)
	profileHandler := handlers.NewProfileHandler(profileService, notificationService)
	realtimeHandler := handlers.NewRealtimeHandler(a.hub, center, profileService)

	a.worker = worker.NewSprintWorker(sprintRepo, sprintService,
		&a.config.Worker.Interval, &a.config.Worker.BatchSize)

	a.router = a.buildRouter(profileService,
		&assetHandler, &modelReqHandler, &featureReqHandler, &eventHandler,
		&sprintHandler, &commentHandler, &profileHandler, &realtimeHandler)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE держит соединение открытым
		IdleTimeout:  60 * time.Second,
	}

	return nil
}

func (a *App) buildRouter(profileService handlers.ProfileService,
	assets *handlers.AssetHandler, modelReqs, featureReqs *handlers.RequestHandler,
	events *handlers.EventHandler, sprints *handlers.SprintHandler,
	comments *handlers.CommentHandler, profiles *handlers.ProfileHandler,
	rt *handlers.RealtimeHandler) *chi.Mux {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(300))

	allowedOrigins := a.config.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-User-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Auth(profileService))

	r.Route("/assets", func(r chi.Router) {
		r.Get("/", assets.ListAssets)  // GET /assets
		r.Post("/", assets.PostAsset)  // POST /assets

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", assets.GetAssetByID)       // GET /assets/{id}
			r.Put("/", assets.UpdateAssetByID)    // PUT /assets/{id}
			r.Delete("/", assets.DeleteAssetByID) // DELETE /assets/{id}

			r.Post("/status", assets.ChangeStatus)   // POST /assets/{id}/status
			r.Post("/claim", assets.ClaimAsset)      // POST /assets/{id}/claim
			r.Post("/unclaim", assets.UnclaimAsset)  // POST /assets/{id}/unclaim
			r.Get("/can-start", assets.GetCanStart)  // GET /assets/{id}/can-start

			r.Get("/dependencies", assets.GetDependencies)            // GET /assets/{id}/dependencies
			r.Post("/dependencies", assets.PostDependency)            // POST /assets/{id}/dependencies
			r.Delete("/dependencies/{depId}", assets.DeleteDependency) // DELETE /assets/{id}/dependencies/{depId}

			r.Get("/comments", comments.ListAssetComments) // GET /assets/{id}/comments
		})
	})

	r.Route("/model-requests", func(r chi.Router) {
		r.Get("/", modelReqs.ListRequests)
		r.Post("/", modelReqs.PostRequest)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", modelReqs.GetRequestByID)
			r.Delete("/", modelReqs.DeleteRequestByID)
			r.Post("/accept", modelReqs.AcceptRequest)
			r.Post("/deny", modelReqs.DenyRequest)
		})
	})

	r.Route("/feature-requests", func(r chi.Router) {
		r.Get("/", featureReqs.ListRequests)
		r.Post("/", featureReqs.PostRequest)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", featureReqs.GetRequestByID)
			r.Delete("/", featureReqs.DeleteRequestByID)
			r.Post("/accept", featureReqs.AcceptRequest)
			r.Post("/deny", featureReqs.DenyRequest)
		})
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", events.ListEvents)
		r.Post("/", events.PostEvent)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", events.GetEventByID)
			r.Put("/", events.UpdateEventByID)
			r.Delete("/", events.DeleteEventByID) // ?with_task=true удаляет и задачу
			r.Post("/task", events.PostTaskFromEvent)
		})
	})

	r.Route("/sprints", func(r chi.Router) {
		r.Get("/", sprints.ListSprints)
		r.Post("/", sprints.PostSprint)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sprints.GetSprintByID)
			r.Put("/", sprints.UpdateSprintByID)
			r.Delete("/", sprints.DeleteSprintByID)

			r.Get("/tasks", sprints.GetSprintTasks)
			r.Post("/tasks", sprints.PostSprintTask)
			r.Delete("/tasks/{assetId}", sprints.DeleteSprintTask)
			r.Post("/tasks/reorder", sprints.ReorderSprintTasks)

			r.Get("/dependencies", sprints.GetSprintDependencies)
			r.Post("/recompute", sprints.RecomputeSprint)

			r.Get("/comments", comments.ListSprintComments)
		})
	})

	r.Route("/comments", func(r chi.Router) {
		r.Post("/", comments.PostComment)
		r.Delete("/{id}", comments.DeleteCommentByID)
	})

	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", profiles.ListProfiles)
		r.Post("/", profiles.PostProfile)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", profiles.GetProfileByID)
			r.Put("/", profiles.UpdateProfileByID)
			r.Post("/block", profiles.BlockProfile)
			r.Post("/unblock", profiles.UnblockProfile)
		})
	})

	r.Get("/notifications", profiles.ListNotifications)
	r.Get("/toasts", rt.GetToasts)
	r.Get("/realtime", rt.StreamChanges)

	r.Get("/health", assets.HealthCheck)

	return r
}

// Run запускает сервер, слушатель row_changes и фоновый воркер,
// блокируется до отмены контекста
func (a *App) Run(ctx context.Context) error {
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.listener != nil {
		go a.listener.Run(workerCtx)
	}
	go a.worker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http сервер: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Остановка сервера...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	return nil
}
