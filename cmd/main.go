package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/config"
	"github.com/Waqasktk456/whichFOOD-EXAM/controllers"
	"github.com/Waqasktk456/whichFOOD-EXAM/logging"
	"github.com/Waqasktk456/whichFOOD-EXAM/nutrition"
	"github.com/Waqasktk456/whichFOOD-EXAM/routes"
	"github.com/Waqasktk456/whichFOOD-EXAM/services"
	"github.com/Waqasktk456/whichFOOD-EXAM/utils"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logging.New(true)
		l.Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.Debug)
	gin.SetMode(cfg.GinMode)

	db, err := config.OpenDB(cfg.DB, cfg.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// AWS-backed channels stay nil when disabled; services skip them.
	var (
		uploader services.ImageUploader
		pusher   services.Pusher
		mailer   services.AlertMailer
		rek      *services.RekognitionService
		snsAPI   services.SNSAPI
	)
	if cfg.AWS.EnableAWS {
		awsCfg, err := config.LoadAWS(ctx, cfg.AWS)
		if err != nil {
			log.Fatal().Err(err).Msg("aws")
		}
		if cfg.AWS.S3Bucket != "" {
			uploader = utils.NewImageUploader(s3.NewFromConfig(awsCfg), cfg.AWS.S3Bucket, cfg.AWS.CloudFrontURL)
		}
		if cfg.AWS.SESSender != "" {
			mailer = utils.NewMailer(ses.NewFromConfig(awsCfg), cfg.AWS.SESSender)
		}
		snsAPI = sns.NewFromConfig(awsCfg)
		rek = services.NewRekognitionService(rekognition.NewFromConfig(awsCfg))
	}

	provider, err := services.NewFoodProvider(cfg.Provider, &http.Client{Timeout: cfg.Provider.Timeout})
	if err != nil {
		log.Fatal().Err(err).Msg("food provider")
	}

	policy := nutrition.DefaultGoalPolicy()
	tokens := utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	hub := services.NewRealtimeHub()
	pushSvc := services.NewPushService(db, snsAPI, cfg.AWS.SNSPlatformARN)
	if snsAPI != nil {
		pusher = pushSvc
	}
	alerts := services.NewAlertBus(db, hub, pusher, mailer, log)

	healthSvc := services.NewHealthService(db, alerts)
	userSvc := services.NewUserService(db, tokens, uploader, healthSvc)
	mealSvc := services.NewMealService(db, alerts, policy)
	foodSvc := services.NewFoodService(db, provider, rek, 20, log)
	recSvc := services.NewRecommendationService(userSvc, mealSvc, provider, policy, cfg.Recommend, cfg.Provider, log)

	r := routes.SetupRouter(routes.Deps{
		Log:             log,
		Tokens:          tokens,
		Debug:           cfg.Debug,
		Users:           controllers.NewUserController(userSvc),
		Meals:           controllers.NewMealController(mealSvc),
		Recommendations: controllers.NewRecommendationController(recSvc),
		Foods:           controllers.NewFoodController(foodSvc),
		Health:          controllers.NewHealthController(healthSvc),
		Alerts:          controllers.NewAlertController(alerts),
		Realtime:        controllers.NewRealtimeController(hub),
		Devices:         controllers.NewDeviceController(pushSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("provider", provider.Name()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
