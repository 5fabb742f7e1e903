package main

import (
	"parkslot/internal/bookings/handler"
	"parkslot/internal/bookings/repository"
	"parkslot/internal/bookings/service"
	"parkslot/internal/bookings/validator"
	"parkslot/pkg/app"
	"parkslot/pkg/client"
	"parkslot/pkg/config"
	"parkslot/pkg/events"

	"github.com/joho/godotenv"
)

const ServiceName = "bookings"

func main() {
	// Optional local overrides; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting bookings service")

	store := buildStore(cfg)
	publisher := buildPublisher(cfg)
	defer publisher.Close()

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingService := service.NewBookingService(store, bookingValidator, wrapPublisher(publisher), cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(store, cfg.Log),
		handler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

func buildStore(cfg *config.Config) repository.Store {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		mongoClient := client.NewMongoClient(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
		cfg.Log.Info("Using MongoDB storage backend", "database", cfg.MongoDatabaseName)
		return repository.NewMongoStore(mongoClient.Client.Database(cfg.MongoDatabaseName), cfg.Log)
	default:
		cfg.Log.Info("Using file storage backend", "path", cfg.BookingsPath())
		return repository.NewFileStore(cfg.BookingsPath(), cfg.Log)
	}
}

func buildPublisher(cfg *config.Config) *events.KafkaPublisher {
	if !cfg.EventsEnabled() {
		return nil
	}
	cfg.Log.Info("Booking events enabled", "topic", cfg.EventsTopic, "brokers", cfg.EventsBrokers)
	return events.NewKafkaPublisher(cfg.EventsBrokers, cfg.EventsTopic, ServiceName)
}

// wrapPublisher keeps a disabled event stream as a plain nil interface so the
// service has a single check to make.
func wrapPublisher(p *events.KafkaPublisher) events.Publisher {
	if p == nil {
		return nil
	}
	return p
}
