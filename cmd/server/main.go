package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	authhandler "travelbook/internal/auth/handler"
	authrepository "travelbook/internal/auth/repository"
	authservice "travelbook/internal/auth/service"
	bookinghandler "travelbook/internal/bookings/handler"
	bookingrepository "travelbook/internal/bookings/repository"
	bookingservice "travelbook/internal/bookings/service"
	bookingvalidator "travelbook/internal/bookings/validator"
	carhandler "travelbook/internal/cars/handler"
	carrepository "travelbook/internal/cars/repository"
	carservice "travelbook/internal/cars/service"
	carvalidator "travelbook/internal/cars/validator"
	"travelbook/internal/events"
	offerhandler "travelbook/internal/offers/handler"
	offerrepository "travelbook/internal/offers/repository"
	offerservice "travelbook/internal/offers/service"
	offervalidator "travelbook/internal/offers/validator"
	reviewhandler "travelbook/internal/reviews/handler"
	reviewrepository "travelbook/internal/reviews/repository"
	reviewservice "travelbook/internal/reviews/service"
	tourhandler "travelbook/internal/tours/handler"
	tourrepository "travelbook/internal/tours/repository"
	tourservice "travelbook/internal/tours/service"
	tourvalidator "travelbook/internal/tours/validator"
	"travelbook/internal/uploads"
	"travelbook/pkg/app"
	"travelbook/pkg/config"
	"travelbook/pkg/kafka"
	"travelbook/pkg/middleware"
	"travelbook/pkg/token"
)

const ServiceName = "travelbook-server"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting travelbook server")

	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	auth := middleware.NewAuth(tokens)
	publisher := newPublisher(cfg)

	tourService := tourservice.NewTourService(
		tourrepository.NewMongoTourRepository(cfg),
		tourvalidator.NewTourValidator(cfg.Log),
		cfg,
	)
	carService := carservice.NewCarService(
		carrepository.NewMongoCarRepository(cfg),
		carvalidator.NewCarValidator(cfg.Log),
		cfg,
	)
	offerService := offerservice.NewOfferService(
		offerrepository.NewMongoOfferRepository(cfg),
		offervalidator.NewOfferValidator(cfg.Log),
		cfg,
	)
	bookingService := bookingservice.NewBookingService(
		bookingrepository.NewMongoBookingRepository(cfg),
		tourService,
		carService,
		offerService,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	reviewService := reviewservice.NewReviewService(
		reviewrepository.NewMongoReviewRepository(cfg),
		tourService,
		cfg,
	)

	userRepo := authrepository.NewMongoUserRepository(cfg)
	ensureIndexes(cfg, userRepo)
	authService := authservice.NewAuthService(userRepo, tokens, cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		authhandler.NewAuthHandler(authService, cfg),
		tourhandler.NewTourHandler(tourService, auth, cfg.Log),
		carhandler.NewCarHandler(carService, auth, cfg.Log),
		offerhandler.NewOfferHandler(offerService, auth, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, auth, cfg.Log),
		reviewhandler.NewReviewHandler(reviewService, auth, cfg.Log),
		uploads.NewHandler(auth, cfg),
	)
	serverApp.Run()
}

// newPublisher wires the Kafka event producer, or a no-op publisher
// when no brokers are configured so the server runs standalone.
func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(kafka.DefaultConfig(cfg.KafkaBrokers), cfg.KafkaBookingTopic, cfg.KafkaDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	return events.NewKafkaPublisher(producer, cfg.Log)
}

func ensureIndexes(cfg *config.Config, userRepo authrepository.UserRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create user indexes", "error", err)
	}
}
