package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindgauge/internal/cache"
	"mindgauge/internal/config"
	"mindgauge/internal/engine"
	"mindgauge/internal/log"
	"mindgauge/internal/repository"
	"mindgauge/internal/service"
	"mindgauge/internal/transport/rest"
	"mindgauge/internal/transport/ws"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Infof("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}
	log.Infof("Connected to Redis")

	// Repositories and caches
	questionRepo := repository.NewQuestionRepo(db)
	assessmentRepo := repository.NewAssessmentRepo(db)
	batchCache := cache.NewBatchCache(rdb)

	// Engine
	demographicCfg := engine.DemographicConfig{
		AgeQuestionID:        cfg.AgeQuestionID,
		GenderQuestionID:     cfg.GenderQuestionID,
		ProfessionQuestionID: cfg.ProfessionQuestionID,
	}
	filter := engine.NewDemographicFilter(demographicCfg)
	resolver := engine.NewBranchResolver(questionRepo, filter)

	// Services
	authSvc := service.NewAuthService(cfg)
	questionSvc := service.NewQuestionService(questionRepo)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, questionRepo, batchCache, filter, resolver)

	// Reviewer monitor feed
	wsHub := ws.NewHub()
	assessmentSvc.SetNotifier(wsHub)

	container := &rest.Container{
		AuthService:       authSvc,
		AssessmentService: assessmentSvc,
		QuestionService:   questionSvc,
		WSHub:             wsHub,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Infof("Server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infof("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Infof("Server exited")
}
