package config

import "os"

// RelayConfig holds configuration for the push outbox relay.
type RelayConfig struct {
	Env           string
	LogLevel      string
	DatabaseURL   string
	RabbitMQURL   string
	PushQueueName string
	HealthAddr    string
}

func LoadRelayConfig() *RelayConfig {
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		Env:           getenv("APP_ENV", "production"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		DatabaseURL:   dbURL,
		RabbitMQURL:   rabbitURL,
		PushQueueName: getenv("PUSH_QUEUE_NAME", "push_notifications"),
		HealthAddr:    getenv("RELAY_HEALTH_ADDR", ":8090"),
	}
}
