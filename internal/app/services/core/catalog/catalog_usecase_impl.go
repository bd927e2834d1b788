package catalog

import (
	"context"
	"fmt"
	"labbridge-service/internal/app/config"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/dto/responses"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// catalogUsecase serves Vital reference data and ICD-10 search results. The
// order wizard polls these endpoints, so every lookup goes through a Redis
// TTL cache before the upstream API.
type catalogUsecase struct {
	VitalCatalogClient contracts.VitalCatalogClient
	ICD10Client        contracts.ICD10Client
	RedisRepository    contracts.RedisRepository
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
}

var (
	catalogUsecaseInstance contracts.CatalogUsecase
	onceCatalogUsecase     sync.Once
)

func NewCatalogUsecase(
	vitalCatalogClient contracts.VitalCatalogClient,
	icd10Client contracts.ICD10Client,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CatalogUsecase {
	onceCatalogUsecase.Do(func() {
		instance := &catalogUsecase{
			VitalCatalogClient: vitalCatalogClient,
			ICD10Client:        icd10Client,
			RedisRepository:    redisRepository,
			InternalConfig:     internalConfig,
			Log:                logger,
		}
		catalogUsecaseInstance = instance
	})
	return catalogUsecaseInstance
}

func (uc *catalogUsecase) cacheTTL() time.Duration {
	return time.Duration(uc.InternalConfig.App.CatalogCacheTTL) * time.Minute
}

func (uc *catalogUsecase) GetLabs(ctx context.Context) ([]responses.Lab, error) {
	var labs []responses.Lab
	if hit, err := uc.fromCache(ctx, constvars.CacheKeyLabs, &labs); err == nil && hit {
		return labs, nil
	}

	labs, err := uc.VitalCatalogClient.GetLabs(ctx)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, constvars.CacheKeyLabs, labs)
	return labs, nil
}

func (uc *catalogUsecase) GetLabTests(ctx context.Context, labID int) ([]responses.LabTest, error) {
	cacheKey := fmt.Sprintf(constvars.CacheKeyLabTestsFormat, labID)

	var labTests []responses.LabTest
	if hit, err := uc.fromCache(ctx, cacheKey, &labTests); err == nil && hit {
		return labTests, nil
	}

	labTests, err := uc.VitalCatalogClient.GetLabTests(ctx, labID)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, cacheKey, labTests)
	return labTests, nil
}

func (uc *catalogUsecase) GetMarkers(ctx context.Context, labTestID string) ([]responses.Marker, error) {
	cacheKey := fmt.Sprintf(constvars.CacheKeyMarkersFormat, labTestID)

	var markers []responses.Marker
	if hit, err := uc.fromCache(ctx, cacheKey, &markers); err == nil && hit {
		return markers, nil
	}

	markers, err := uc.VitalCatalogClient.GetMarkers(ctx, labTestID)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, cacheKey, markers)
	return markers, nil
}

func (uc *catalogUsecase) SearchICD10(ctx context.Context, term string) ([]responses.ICD10Option, error) {
	cacheKey := fmt.Sprintf(constvars.CacheKeyICD10Format, strings.ToLower(strings.TrimSpace(term)))

	var options []responses.ICD10Option
	if hit, err := uc.fromCache(ctx, cacheKey, &options); err == nil && hit {
		return options, nil
	}

	options, err := uc.ICD10Client.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, cacheKey, options)
	return options, nil
}

func (uc *catalogUsecase) fromCache(ctx context.Context, key string, dst interface{}) (bool, error) {
	cached, err := uc.RedisRepository.Get(ctx, key)
	if err != nil || cached == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		// A corrupt entry just means a cache miss; the next Set overwrites it.
		uc.Log.Warn("catalogUsecase dropping unreadable cache entry",
			zap.String("cache_key", key),
			zap.Error(err),
		)
		return false, nil
	}
	return true, nil
}

func (uc *catalogUsecase) toCache(ctx context.Context, key string, value interface{}) {
	if err := uc.RedisRepository.Set(ctx, key, value, uc.cacheTTL()); err != nil {
		uc.Log.Warn("catalogUsecase cache write failed",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}
}
