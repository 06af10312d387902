package main

import (
  "context"
  "fmt"
  "os"
  "os/signal"
  "syscall"
  "time"
  "github.com/talentbridge/talentbridge-backend/internal/clients/msgraph"
  "github.com/talentbridge/talentbridge-backend/internal/clients/openai"
  "github.com/talentbridge/talentbridge-backend/internal/clients/redisbus"
  "github.com/talentbridge/talentbridge-backend/internal/clients/sendgrid"
  "github.com/talentbridge/talentbridge-backend/internal/db"
  "github.com/talentbridge/talentbridge-backend/internal/handlers"
  "github.com/talentbridge/talentbridge-backend/internal/jobs"
  "github.com/talentbridge/talentbridge-backend/internal/jobs/runtime"
  "github.com/talentbridge/talentbridge-backend/internal/logger"
  "github.com/talentbridge/talentbridge-backend/internal/middleware"
  "github.com/talentbridge/talentbridge-backend/internal/observability"
  "github.com/talentbridge/talentbridge-backend/internal/repos"
  "github.com/talentbridge/talentbridge-backend/internal/server"
  "github.com/talentbridge/talentbridge-backend/internal/services"
  "github.com/talentbridge/talentbridge-backend/internal/sse"
  "github.com/talentbridge/talentbridge-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
  defer stop()

  // Tracing
  otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
    ServiceName: "talentbridge-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "", log),
  })
  if otelShutdown != nil {
    defer func() {
      shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = otelShutdown(shutdownCtx)
    }()
  }

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  candidateRepo := repos.NewCandidateRepo(thePG, log)
  jobRepo := repos.NewJobRepo(thePG, log)
  submissionRepo := repos.NewSubmissionRepo(thePG, log)
  behaviorRepo := repos.NewCandidateBehaviorRepo(thePG, log)
  interviewRepo := repos.NewInterviewRepo(thePG, log)
  alertRepo := repos.NewInfluenceAlertRepo(thePG, log)
  dealHealthRepo := repos.NewDealHealthRepo(thePG, log)
  matchingConfigRepo := repos.NewMatchingConfigRepo(thePG, log)
  clientSummaryRepo := repos.NewClientSummaryRepo(thePG, log)
  careerPageRepo := repos.NewCareerPageRepo(thePG, log)
  leadRepo := repos.NewLeadRepo(thePG, log)
  calendarConnRepo := repos.NewCalendarConnectionRepo(thePG, log)
  jobRunRepo := repos.NewJobRunRepo(thePG, log)

  // SSE + event bus
  log.Info("Setting up SSE hub and event bus...")
  sseHub := sse.NewSSEHub(log)
  eventBus, err := redisbus.NewRedisEventBus(log)
  if err != nil {
    log.Warn("Redis event bus unavailable; live events disabled", "error", err)
    eventBus = nil
  } else {
    if fErr := eventBus.StartForwarder(ctx, sseHub.Broadcast); fErr != nil {
      log.Warn("Failed to start event forwarder", "error", fErr)
    }
  }
  notifier := services.NewNotifier(log, eventBus)

  // External clients
  aiClient, err := openai.NewClient(log)
  if err != nil {
    log.Warn("OpenAI client unavailable; summaries disabled", "error", err)
    aiClient = nil
  }
  mailClient, err := sendgrid.NewFromEnv(log)
  if err != nil {
    log.Warn("SendGrid client unavailable; invitation mail disabled", "error", err)
    mailClient = nil
  }
  graphClient, err := msgraph.New(log, msgraph.ConfigFromEnv())
  if err != nil {
    log.Warn("Microsoft Graph client unavailable; calendar disabled", "error", err)
    graphClient = nil
  }

  // Services
  log.Info("Setting up Services from main...")
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Warn("Could not init BucketService", "error", err)
    bucketService = nil
  }
  avatarService, err := services.NewAvatarService(log, bucketService)
  if err != nil {
    log.Warn("Could not init AvatarService", "error", err)
    avatarService = nil
  }
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, avatarService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo, avatarService, notifier)
  candidateService := services.NewCandidateService(thePG, log, candidateRepo, avatarService)
  jobService := services.NewJobService(thePG, log, jobRepo)
  matchingConfigService := services.NewMatchingConfigService(thePG, log, matchingConfigRepo)
  submissionService := services.NewSubmissionService(thePG, log, submissionRepo, candidateRepo, jobRepo, behaviorRepo, matchingConfigService, notifier)
  interviewService := services.NewInterviewService(thePG, log, interviewRepo, submissionRepo, candidateRepo, behaviorRepo, mailClient, notifier)
  dealHealthService := services.NewDealHealthService(thePG, log, submissionRepo, behaviorRepo, dealHealthRepo, notifier)
  influenceService := services.NewInfluenceService(thePG, log, submissionRepo, behaviorRepo, interviewRepo, alertRepo, notifier)
  summaryService := services.NewSummaryService(thePG, log, submissionRepo, candidateRepo, jobRepo, clientSummaryRepo, aiClient, notifier)
  calendarService := services.NewCalendarService(thePG, log, calendarConnRepo, graphClient)
  crawlService := services.NewCrawlService(thePG, log, careerPageRepo, leadRepo, notifier)

  // Background jobs
  log.Info("Setting up job worker and scheduler...")
  registry := runtime.NewRegistry()
  if err := registry.Register(jobs.NewInfluenceEngineHandler(influenceService)); err != nil {
    log.Error("Failed to register influence handler", "error", err)
    os.Exit(1)
  }
  if err := registry.Register(jobs.NewDealHealthBatchHandler(dealHealthService)); err != nil {
    log.Error("Failed to register deal health handler", "error", err)
    os.Exit(1)
  }
  if err := registry.Register(jobs.NewCareerPageCrawlHandler(crawlService)); err != nil {
    log.Error("Failed to register crawl handler", "error", err)
    os.Exit(1)
  }
  if err := registry.Register(jobs.NewClientSummaryHandler(summaryService)); err != nil {
    log.Error("Failed to register summary handler", "error", err)
    os.Exit(1)
  }
  jobs.NewWorker(thePG, log, jobRunRepo, registry).Start(ctx)
  jobs.NewScheduler(log, jobRunRepo).Start(ctx)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  candidateHandler := handlers.NewCandidateHandler(log, candidateService)
  jobHandler := handlers.NewJobHandler(log, jobService)
  submissionHandler := handlers.NewSubmissionHandler(log, submissionService)
  matchingConfigHandler := handlers.NewMatchingConfigHandler(matchingConfigService)
  interviewHandler := handlers.NewInterviewHandler(log, interviewService)
  respondHandler := handlers.NewRespondHandler(log, interviewService)
  influenceHandler := handlers.NewInfluenceHandler(log, influenceService)
  dealHealthHandler := handlers.NewDealHealthHandler(log, dealHealthService)
  summaryHandler := handlers.NewSummaryHandler(log, summaryService)
  calendarHandler := handlers.NewCalendarHandler(log, calendarService, interviewService)
  crawlHandler := handlers.NewCrawlHandler(log, crawlService)
  eventsHandler := handlers.NewEventsHandler(log, sseHub)
  runsHandler := handlers.NewRunsHandler(jobRunRepo)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AllowOrigins:          server.ParseOrigins(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)),
    AuthMiddleware:        authMiddleware,
    AuthHandler:           authHandler,
    UserHandler:           userHandler,
    CandidateHandler:      candidateHandler,
    JobHandler:            jobHandler,
    SubmissionHandler:     submissionHandler,
    MatchingConfigHandler: matchingConfigHandler,
    InterviewHandler:      interviewHandler,
    RespondHandler:        respondHandler,
    InfluenceHandler:      influenceHandler,
    DealHealthHandler:     dealHealthHandler,
    SummaryHandler:        summaryHandler,
    CalendarHandler:       calendarHandler,
    CrawlHandler:          crawlHandler,
    EventsHandler:         eventsHandler,
    RunsHandler:           runsHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
