package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "go.uber.org/zap"

    "github.com/smartrecruit/recruitment-backend/internal/config"
    "github.com/smartrecruit/recruitment-backend/internal/database"
    "github.com/smartrecruit/recruitment-backend/internal/handler"
    "github.com/smartrecruit/recruitment-backend/internal/logger"
    "github.com/smartrecruit/recruitment-backend/internal/mailer"
    "github.com/smartrecruit/recruitment-backend/internal/queue"
    "github.com/smartrecruit/recruitment-backend/internal/repository"
    "github.com/smartrecruit/recruitment-backend/internal/router"
    "github.com/smartrecruit/recruitment-backend/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()

    zl, err := logger.New(logger.ConfigFromEnv())
    if err != nil {
        log.Fatalf("logger: %v", err)
    }
    defer func() { _ = zl.Sync() }()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        zl.Fatal("database connect failed", zap.Error(err))
    }
    defer func() { _ = db.Close() }()

    rdb := config.NewRedisClient()
    if rdb == nil {
        zl.Warn("redis unavailable, rate limiting and caching disabled")
    }

    // The audit consumer drains application events into logs/. A broker
    // outage only pauses the trail; the API keeps serving.
    go func() {
        if err := queue.StartAuditConsumer(zl); err != nil {
            zl.Warn("audit consumer stopped", zap.Error(err))
        }
    }()

    mail := mailer.New(cfg, zl)

    candidates := repository.NewCandidateRepo(db)
    jobPosts := repository.NewJobPostRepo(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewResetTokenRepo(db)

    flow := service.NewWorkflow(candidates, mail, zl)
    accounts := service.NewAccounts(users, tokens, mail, cfg, zl)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.CORS())

    router.Register(e, router.Handlers{
        Auth:       handler.NewAuthHandler(accounts),
        Candidates: handler.NewCandidateHandler(candidates, flow),
        JobPosts:   handler.NewJobPostHandler(jobPosts),
        Users:      handler.NewUserHandler(accounts),
        Uploads:    handler.NewUploadHandler(cfg.UploadDir),
    }, cfg, rdb)

    addr := ":" + cfg.Port
    zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
    if err := e.Start(addr); err != nil {
        zl.Fatal("server stopped", zap.Error(err))
    }
}
