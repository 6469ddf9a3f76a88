package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/chat"
	"github.com/harikaa2703/ArogyaKrishi/internal/classifier"
	"github.com/harikaa2703/ArogyaKrishi/internal/detections"
	"github.com/harikaa2703/ArogyaKrishi/internal/devices"
	"github.com/harikaa2703/ArogyaKrishi/internal/history"
	"github.com/harikaa2703/ArogyaKrishi/internal/knowledge"
	"github.com/harikaa2703/ArogyaKrishi/internal/queue"
	"github.com/harikaa2703/ArogyaKrishi/internal/remedies"
	"github.com/harikaa2703/ArogyaKrishi/internal/services/health"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/config"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/storage/db"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/storage/object"
	localstore "github.com/harikaa2703/ArogyaKrishi/internal/shared/storage/object/local"
	s3store "github.com/harikaa2703/ArogyaKrishi/internal/shared/storage/object/s3"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	Matcher    *knowledge.Matcher
	Classifier classifier.Classifier

	DetectionsRepo detections.Repo
	DevicesRepo    devices.Repo
	HistoryRepo    history.Repo

	RemediesService   *remedies.Service
	DevicesService    *devices.Service
	DetectionsService *detections.Service
	HistoryService    *history.Service
	ChatService       *chat.Service
	HealthService     *health.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	kb, err := buildKnowledge(cfg)
	if err != nil {
		return nil, err
	}
	matcher := knowledge.NewMatcher(kb)

	clf, err := buildClassifier(cfg, kb)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		DB:         sqlDB,
		Store:      store,
		Queue:      queueClient,
		Matcher:    matcher,
		Classifier: clf,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		Health:           app.HealthService,
		KnowledgeHandler: knowledge.NewHandler(matcher, cfg.KnowledgePath),
		DetectionHandler: detections.NewHandler(app.DetectionsService, cfg.MaxImageSizeMB),
		DeviceHandler:    devices.NewHandler(app.DevicesService),
		RemedyHandler:    remedies.NewHandler(app.RemediesService, remedies.NewStoreFinder(cfg.OverpassURLs, cfg.StoreSearchRadiusM)),
		HistoryHandler:   history.NewHandler(app.HistoryService),
		ChatHandler:      chat.NewHandler(app.ChatService),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.AlertQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildKnowledge(cfg config.Config) (*knowledge.KnowledgeBase, error) {
	if strings.TrimSpace(cfg.KnowledgePath) != "" {
		return knowledge.Load(cfg.KnowledgePath)
	}
	return knowledge.Default()
}

func buildClassifier(cfg config.Config, kb *knowledge.KnowledgeBase) (classifier.Classifier, error) {
	if cfg.ClassifierMode == "remote" {
		return classifier.NewRemote(cfg.ClassifierURL)
	}
	return classifier.NewMock(kb)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	cfg := app.Config

	if app.DB != nil {
		app.DetectionsRepo = &detections.PGRepo{DB: app.DB}
		app.DevicesRepo = &devices.PGRepo{DB: app.DB}
		app.HistoryRepo = &history.PGRepo{DB: app.DB}
	} else {
		app.DetectionsRepo = detections.NewMemoryRepo()
		app.DevicesRepo = devices.NewMemoryRepo()
		app.HistoryRepo = history.NewMemoryRepo()
	}

	catalog, err := remedies.DefaultCatalog()
	if err != nil {
		return err
	}
	app.RemediesService = remedies.NewService(catalog, app.Matcher)

	app.DevicesService = &devices.Service{
		Repo:          app.DevicesRepo,
		Notifier:      devices.LogNotifier{},
		Remedies:      app.RemediesService,
		AlertRadiusKm: cfg.AlertRadiusKm,
		DedupeWindow:  time.Duration(cfg.AlertDedupeHours) * time.Hour,
	}

	app.HistoryService = history.NewService(app.HistoryRepo)

	app.DetectionsService = &detections.Service{
		Classifier:          app.Classifier,
		Repo:                app.DetectionsRepo,
		Store:               app.Store,
		Queue:               app.Queue,
		Alerter:             app.DevicesService,
		Remedies:            app.RemediesService,
		Searches:            app.HistoryService,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		AlertRadiusKm:       cfg.AlertRadiusKm,
	}

	app.ChatService = buildChat(cfg, app.RemediesService)
	app.HealthService = health.NewService()
	return nil
}

func buildChat(cfg config.Config, remedySvc *remedies.Service) *chat.Service {
	canned := &chat.CannedResponder{Remedies: remedySvc}
	svc := &chat.Service{
		Store:     chat.NewSessionStore(),
		Responder: canned,
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		openAI, err := chat.NewOpenAIResponder(cfg.OpenAIAPIKey, cfg.OpenAIChatModel)
		if err != nil {
			log.Printf("bootstrap: openai disabled: %v", err)
			return svc
		}
		svc.Responder = openAI
		svc.Fallback = canned
	}
	return svc
}
