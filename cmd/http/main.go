package main

import (
	"context"
	"labbridge-service/internal/app/config"
	"labbridge-service/internal/app/delivery/http/controllers"
	"labbridge-service/internal/app/delivery/http/middlewares"
	"labbridge-service/internal/app/delivery/http/routers"
	"labbridge-service/internal/app/drivers/database"
	"labbridge-service/internal/app/drivers/logger"
	"labbridge-service/internal/app/drivers/messaging"
	"labbridge-service/internal/app/drivers/storage"
	"labbridge-service/internal/app/services/core/catalog"
	"labbridge-service/internal/app/services/core/orders"
	"labbridge-service/internal/app/services/core/results"
	"labbridge-service/internal/app/services/fhir_medplum/binaries"
	"labbridge-service/internal/app/services/fhir_medplum/bundle"
	"labbridge-service/internal/app/services/fhir_medplum/coverages"
	diagnosticreports "labbridge-service/internal/app/services/fhir_medplum/diagnostic_reports"
	"labbridge-service/internal/app/services/fhir_medplum/media"
	"labbridge-service/internal/app/services/fhir_medplum/patients"
	questionnaireresponses "labbridge-service/internal/app/services/fhir_medplum/questionnaire_responses"
	"labbridge-service/internal/app/services/fhir_medplum/references"
	servicerequests "labbridge-service/internal/app/services/fhir_medplum/service_requests"
	"labbridge-service/internal/app/services/icd10"
	"labbridge-service/internal/app/services/shared/redis"
	"labbridge-service/internal/app/services/shared/resultqueue"
	sharedstorage "labbridge-service/internal/app/services/shared/storage"
	"labbridge-service/internal/app/services/vital"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitConn,
		Minio:          minioClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	if err := bootstrapTheApp(&bootstrap); err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Error closing application resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	zapLogger := bootstrap.Logger
	fhirBaseURL := internalConfig.FHIR.BaseUrl

	// Shared infrastructure
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	storageRepository := sharedstorage.NewMinioStorage(
		bootstrap.Minio,
		bootstrap.DriverConfig.Minio.BucketName,
	)
	queueService, err := resultqueue.NewService(bootstrap.RabbitMQ, zapLogger, internalConfig.Worker.BatchSize)
	if err != nil {
		return err
	}

	// Record-store clients
	patientFhirClient := patients.NewPatientFhirClient(fhirBaseURL, zapLogger)
	referenceFhirClient := references.NewReferenceFhirClient(fhirBaseURL, zapLogger)
	coverageFhirClient := coverages.NewCoverageFhirClient(fhirBaseURL, zapLogger)
	serviceRequestFhirClient := servicerequests.NewServiceRequestFhirClient(fhirBaseURL, zapLogger)
	questionnaireResponseFhirClient := questionnaireresponses.NewQuestionnaireResponseFhirClient(fhirBaseURL, zapLogger)
	bundleFhirClient := bundle.NewBundleFhirClient(fhirBaseURL, zapLogger)
	diagnosticReportFhirClient := diagnosticreports.NewDiagnosticReportFhirClient(fhirBaseURL, zapLogger)
	binaryFhirClient := binaries.NewBinaryFhirClient(fhirBaseURL, zapLogger)
	mediaFhirClient := media.NewMediaFhirClient(fhirBaseURL, zapLogger)

	// Lab API clients
	vitalOrderClient := vital.NewVitalOrderClient(internalConfig, zapLogger)
	vitalCatalogClient := vital.NewVitalCatalogClient(internalConfig, zapLogger)
	icd10Client := icd10.NewICD10Client(zapLogger)

	// Orders
	submissionLogRepository := orders.NewSubmissionLogMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)
	orderUsecase := orders.NewOrderUsecase(
		serviceRequestFhirClient,
		referenceFhirClient,
		coverageFhirClient,
		questionnaireResponseFhirClient,
		vitalOrderClient,
		submissionLogRepository,
		internalConfig,
		zapLogger,
	)
	orderController := controllers.NewOrderController(zapLogger, orderUsecase)

	// Results
	resultUsecase := results.NewResultUsecase(
		vitalOrderClient,
		patientFhirClient,
		bundleFhirClient,
		diagnosticReportFhirClient,
		binaryFhirClient,
		mediaFhirClient,
		storageRepository,
		internalConfig,
		zapLogger,
	)
	webhookController := controllers.NewWebhookController(zapLogger, queueService)

	worker := results.NewWorker(zapLogger, internalConfig, queueService, resultUsecase)
	bootstrap.WorkerStop = worker.Start(context.Background())

	// Catalog
	catalogUsecase := catalog.NewCatalogUsecase(
		vitalCatalogClient,
		icd10Client,
		redisRepository,
		internalConfig,
		zapLogger,
	)
	catalogController := controllers.NewCatalogController(zapLogger, catalogUsecase)

	// HTTP surface
	mws := &middlewares.Middlewares{
		Log:            zapLogger,
		InternalConfig: internalConfig,
	}
	bootstrap.Router.Use(mws.RequestIDMiddleware)
	bootstrap.Router.Use(mws.Logging(zapLogger))

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		mws,
		orderController,
		webhookController,
		catalogController,
	)

	return nil
}
