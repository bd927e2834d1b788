package orders

import (
	"context"
	"labbridge-service/internal/app/contracts"
	"labbridge-service/internal/app/models"
	"labbridge-service/internal/pkg/constvars"
	"labbridge-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SubmissionLogMongoRepository struct {
	Collection *mongo.Collection
}

func NewSubmissionLogMongoRepository(db *mongo.Client, dbName string) contracts.SubmissionLogRepository {
	return &SubmissionLogMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionSubmissionLogs),
	}
}

func (r *SubmissionLogMongoRepository) Insert(ctx context.Context, submissionLog *models.SubmissionLog) error {
	now := time.Now().UTC()
	submissionLog.CreatedAt = now
	submissionLog.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, submissionLog)
	if err != nil {
		return exceptions.ErrMongoInsert(err)
	}
	return nil
}

func (r *SubmissionLogMongoRepository) UpdatePhase(ctx context.Context, id, phase, vitalOrderID, errorText string) error {
	fields := bson.M{
		"phase":      phase,
		"error_text": errorText,
		"updated_at": time.Now().UTC(),
	}
	if vitalOrderID != "" {
		fields["vital_order_id"] = vitalOrderID
	}
	update := bson.M{"$set": fields}

	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return exceptions.ErrMongoUpdate(err)
	}
	return nil
}
