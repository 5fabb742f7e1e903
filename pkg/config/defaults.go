package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultStorageBackend = BackendFile
	DefaultDataDir        = "data"
	DefaultBookingsFile   = "bookings.json"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "parkslot"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultEventsTopic = "parkslot.bookings"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
