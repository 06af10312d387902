package server

import (
  "strings"
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/talentbridge/talentbridge-backend/internal/handlers"
  "github.com/talentbridge/talentbridge-backend/internal/middleware"
)

type RouterConfig struct {
  AllowOrigins          []string
  AuthMiddleware        *middleware.AuthMiddleware
  AuthHandler           *handlers.AuthHandler
  UserHandler           *handlers.UserHandler
  CandidateHandler      *handlers.CandidateHandler
  JobHandler            *handlers.JobHandler
  SubmissionHandler     *handlers.SubmissionHandler
  MatchingConfigHandler *handlers.MatchingConfigHandler
  InterviewHandler      *handlers.InterviewHandler
  RespondHandler        *handlers.RespondHandler
  InfluenceHandler      *handlers.InfluenceHandler
  DealHealthHandler     *handlers.DealHealthHandler
  SummaryHandler        *handlers.SummaryHandler
  CalendarHandler       *handlers.CalendarHandler
  CrawlHandler          *handlers.CrawlHandler
  EventsHandler         *handlers.EventsHandler
  RunsHandler           *handlers.RunsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("talentbridge-backend"))
  router.Use(middleware.AttachTraceContext())

  origins := cfg.AllowOrigins
  if len(origins) == 0 {
    origins = []string{"http://localhost:3000"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/api/register", cfg.AuthHandler.Register)
  router.POST("/api/login", cfg.AuthHandler.Login)
  router.POST("/api/refresh", cfg.AuthHandler.Refresh)
  // OAuth redirect lands here without a session.
  router.GET("/api/calendar/callback", cfg.CalendarHandler.Callback)

  // Candidate response links; the token in the path is the credential.
  respond := router.Group("/respond/:token")
  {
    respond.GET("", cfg.RespondHandler.Get)
    respond.POST("/accept", cfg.RespondHandler.Accept)
    respond.POST("/counter", cfg.RespondHandler.Counter)
    respond.POST("/decline", cfg.RespondHandler.Decline)
  }

// ===============
// || Protected ||
// ===============
  api := router.Group("/api")
  api.Use(cfg.AuthMiddleware.RequireAuth())

  api.POST("/logout", cfg.AuthHandler.Logout)
  api.GET("/events/stream", cfg.EventsHandler.Stream)

  api.GET("/user", cfg.UserHandler.GetMe)
  api.PUT("/user/name", cfg.UserHandler.UpdateName)
  api.PUT("/user/avatar", cfg.UserHandler.UploadAvatar)

  api.POST("/candidates", cfg.CandidateHandler.Create)
  api.GET("/candidates", cfg.CandidateHandler.List)
  api.GET("/candidates/:id", cfg.CandidateHandler.Get)
  api.PATCH("/candidates/:id", cfg.CandidateHandler.Update)
  api.POST("/candidates/:id/consent", cfg.CandidateHandler.RecordConsent)
  api.GET("/candidates/:id/summary", cfg.SummaryHandler.GetLatestForCandidate)

  api.POST("/jobs", cfg.JobHandler.Create)
  api.GET("/jobs", cfg.JobHandler.List)
  api.GET("/jobs/:id", cfg.JobHandler.Get)
  api.PATCH("/jobs/:id", cfg.JobHandler.Update)
  api.POST("/jobs/:id/close", cfg.JobHandler.Close)

  api.POST("/submissions", cfg.SubmissionHandler.Create)
  api.GET("/submissions", cfg.SubmissionHandler.List)
  api.POST("/submissions/preview-match", cfg.SubmissionHandler.PreviewMatch)
  api.GET("/submissions/:id", cfg.SubmissionHandler.Get)
  api.POST("/submissions/:id/stage", cfg.SubmissionHandler.AdvanceStage)
  api.POST("/submissions/:id/consent", cfg.SubmissionHandler.RecordConsent)
  api.POST("/submissions/:id/interviews", cfg.InterviewHandler.SendInvitation)
  api.GET("/submissions/:id/interviews/latest", cfg.InterviewHandler.GetLatest)
  api.GET("/interviews/:id", cfg.InterviewHandler.Get)
  api.GET("/submissions/:id/deal-health", cfg.DealHealthHandler.GetBySubmission)
  api.POST("/submissions/:id/deal-health/recompute", cfg.DealHealthHandler.Recompute)
  api.POST("/submissions/:id/summary", cfg.SummaryHandler.Generate)

  api.GET("/matching-config", cfg.MatchingConfigHandler.GetActive)
  api.PUT("/matching-config", cfg.MatchingConfigHandler.UpdateActive)
  api.POST("/matching-config/normalize", cfg.MatchingConfigHandler.NormalizeActive)
  api.GET("/matching-config/versions", cfg.MatchingConfigHandler.ListVersions)

  api.POST("/influence/run", cfg.InfluenceHandler.Run)
  api.GET("/influence/alerts", cfg.InfluenceHandler.ListAlerts)
  api.POST("/influence/alerts/:id/dismiss", cfg.InfluenceHandler.DismissAlert)
  api.POST("/influence/engagement", cfg.InfluenceHandler.RecordEngagement)

  api.POST("/deal-health/recompute", cfg.DealHealthHandler.RecomputeAll)
  api.GET("/deal-health", cfg.DealHealthHandler.ListByRisk)

  api.GET("/calendar/connect-url", cfg.CalendarHandler.ConnectURL)
  api.GET("/calendar", cfg.CalendarHandler.GetConnection)
  api.DELETE("/calendar", cfg.CalendarHandler.Disconnect)
  api.POST("/calendar/free-busy", cfg.CalendarHandler.FreeBusy)
  api.POST("/calendar/events", cfg.CalendarHandler.CreateEvent)
  api.PATCH("/calendar/events/:id", cfg.CalendarHandler.UpdateEvent)
  api.DELETE("/calendar/events/:id", cfg.CalendarHandler.DeleteEvent)

  api.POST("/career-pages", cfg.CrawlHandler.RegisterPage)
  api.GET("/career-pages", cfg.CrawlHandler.ListPages)
  api.POST("/career-pages/:id/crawl", cfg.CrawlHandler.CrawlPage)
  api.POST("/career-pages/crawl-all", cfg.CrawlHandler.CrawlAll)
  api.GET("/leads", cfg.CrawlHandler.ListLeads)

  api.GET("/runs/:id", cfg.RunsHandler.Get)

  return router
}

// ParseOrigins splits the comma-separated CORS_ALLOW_ORIGINS value.
func ParseOrigins(raw string) []string {
  var origins []string
  for _, part := range strings.Split(raw, ",") {
    part = strings.TrimSpace(part)
    if part != "" {
      origins = append(origins, part)
    }
  }
  return origins
}
