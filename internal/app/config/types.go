package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}
	MongoDB struct {
		Port     string
		Host     string
		Username string
		Password string
		DbName   string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Minio struct {
		Port       string
		Host       string
		Username   string
		Password   string
		BucketName string
		UseSSL     bool
	}
)

type (
	InternalConfig struct {
		App    App
		FHIR   FHIR
		Vital  Vital
		Worker Worker
	}
	App struct {
		Env             string
		Port            string
		Version         string
		EndpointPrefix  string
		WebhookAPIKey   string
		MaxRequests     int
		ShutdownTimeout int
		CatalogCacheTTL int
	}
	FHIR struct {
		BaseUrl string
	}
	// Vital holds the lab API credentials; defaults are resolved once here,
	// never re-derived inside operations.
	Vital struct {
		APIKey            string
		BaseURL           string
		IsProd            bool
		RequestsPerSecond int
	}
	// Worker tunes the result-ingestion consumer.
	Worker struct {
		BatchSize         int
		MaxAttempts       int
		IntervalInSeconds int
	}
)

type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Client
	Redis          *redis.Client
	RabbitMQ       *amqp091.Connection
	Minio          *minio.Client
	Logger         *zap.Logger
	DriverConfig   *DriverConfig
	InternalConfig *InternalConfig
	// WorkerStop is called during Shutdown to halt the result-ingestion worker.
	WorkerStop func()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.WorkerStop != nil {
		b.WorkerStop()
		log.Println("Successfully stopped result worker")
	}

	if err := b.Redis.Close(); err != nil {
		return err
	}
	log.Println("Successfully closed Redis")

	if err := b.RabbitMQ.Close(); err != nil {
		return err
	}
	log.Println("Successfully closed RabbitMQ")

	if err := b.MongoDB.Disconnect(ctx); err != nil {
		return err
	}
	log.Println("Successfully closed MongoDB")

	if err := b.Logger.Sync(); err != nil {
		return err
	}

	return nil
}
