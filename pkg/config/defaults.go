package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "travelbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultBaseURL  = "http://localhost:8080"

	DefaultAccessTokenTTL = 24 * time.Hour
	DefaultBcryptCost     = 12

	DefaultOAuthSuccessURL = "http://localhost:5173/auth/callback"

	DefaultCacheTTL = 60 * time.Second

	DefaultKafkaBookingTopic = "travelbook.bookings"
	DefaultKafkaDLQTopic     = "travelbook.bookings.dlq"

	DefaultUploadDir = "./uploads"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
	DefaultMaxUploadSize  = 5 * 1024 * 1024 // 5MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPageLimit = 6
	MaxPageLimit     = 50
)

// NormalizePaginationLimit clamps a requested page size to sane bounds.
func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// NormalizePage coerces page numbers to be 1-based.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
