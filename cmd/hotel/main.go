package main

import (
	"context"

	authhandler "innkeep/internal/auth/handler"
	authrepo "innkeep/internal/auth/repository"
	authservice "innkeep/internal/auth/service"
	bookinghandler "innkeep/internal/bookings/handler"
	bookingrepo "innkeep/internal/bookings/repository"
	bookingservice "innkeep/internal/bookings/service"
	"innkeep/internal/bookings/validator"
	roomhandler "innkeep/internal/rooms/handler"
	roomrepo "innkeep/internal/rooms/repository"
	roomservice "innkeep/internal/rooms/service"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
	"innkeep/pkg/contracts"
	"innkeep/pkg/kafka"
	"innkeep/pkg/token"

	"github.com/joho/godotenv"
)

const ServiceName = "hotel"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting hotel service")

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	publisher := initPublisher(cfg)
	handlers := initHandlers(cfg, issuer, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(issuer, publisher, handlers...)
	serverApp.Run()

	cfg.GracefulShutdown()
}

func initPublisher(cfg *config.Config) kafka.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking events disabled")
		return kafka.NoopPublisher{}
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return producer
}

func initHandlers(cfg *config.Config, issuer token.Issuer, publisher kafka.Publisher) []contracts.Handler {
	roomRepository := roomrepo.NewMongoRoomRepository(cfg)
	roomSvc := roomservice.NewRoomService(roomRepository, cfg)

	checkRoomInventory(cfg, roomRepository)

	userRepository := authrepo.NewMongoUserRepository(cfg)

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepository := bookingrepo.NewMongoBookingRepository(cfg)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepository,
		roomRepository,
		bookingValidator,
		publisher,
		userRepository,
		cfg,
	)
	authSvc := authservice.NewAuthService(userRepository, bookingSvc, issuer, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		roomhandler.NewRoomHandler(roomSvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
		authhandler.NewAuthHandler(authSvc, cfg.Log),
	}
}

// checkRoomInventory warns when the Rooms collection is empty. Seeding is the
// migration job's responsibility, never done lazily here.
func checkRoomInventory(cfg *config.Config, repo roomrepo.RoomRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ReadTimeout)
	defer cancel()

	count, err := repo.Count(ctx, nil)
	if err != nil {
		cfg.Log.Warn("Could not check room inventory", "error", err)
		return
	}
	if count == 0 {
		cfg.Log.Warn("Room inventory is empty; run the migrate binary with -seed to load the catalog")
	}
}
