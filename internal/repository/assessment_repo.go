package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindgauge/internal/model"
)

// ErrNotMatched is returned when a guarded update matched no document: the
// assessment is gone, not in progress anymore, the version moved, or the
// question was already answered. Callers re-read to tell the cases apart.
var ErrNotMatched = errors.New("assessment update matched no document")

type AssessmentRepo interface {
	Create(ctx context.Context, assessment *model.Assessment) error
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Assessment, error)
	ListAll(ctx context.Context) ([]*model.Assessment, error)

	// AppendResponse appends one ledger entry iff the assessment is still
	// in progress at the given version and the question is unanswered.
	AppendResponse(ctx context.Context, id string, version int, resp *model.Response) error

	// Complete transitions in_progress -> completed and attaches the
	// result. One-way: a second call returns ErrNotMatched.
	Complete(ctx context.Context, id string, result *model.Result, completedAt time.Time) error

	// Abandon is the administrative terminal transition
	Abandon(ctx context.Context, id string) error
}

type assessmentRepo struct {
	collection *mongo.Collection
}

func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("assessments"),
	}
}

func (r *assessmentRepo) Create(ctx context.Context, assessment *model.Assessment) error {
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	if assessment.Responses == nil {
		assessment.Responses = []model.Response{}
	}
	_, err := r.collection.InsertOne(ctx, assessment)
	return err
}

func (r *assessmentRepo) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assessment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepo) ListByUser(ctx context.Context, userID string) ([]*model.Assessment, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *assessmentRepo) ListAll(ctx context.Context) ([]*model.Assessment, error) {
	return r.find(ctx, bson.M{})
}

func (r *assessmentRepo) AppendResponse(ctx context.Context, id string, version int, resp *model.Response) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":                  id,
			"status":               model.AssessmentInProgress,
			"version":              version,
			"responses.questionId": bson.M{"$ne": resp.QuestionID},
		},
		bson.M{
			"$push": bson.M{"responses": resp},
			"$inc":  bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMatched
	}
	return nil
}

func (r *assessmentRepo) Complete(ctx context.Context, id string, result *model.Result, completedAt time.Time) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.AssessmentInProgress},
		bson.M{
			"$set": bson.M{
				"status":      model.AssessmentCompleted,
				"result":      result,
				"completedAt": completedAt,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMatched
	}
	return nil
}

func (r *assessmentRepo) Abandon(ctx context.Context, id string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.AssessmentInProgress},
		bson.M{
			"$set": bson.M{"status": model.AssessmentAbandoned},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMatched
	}
	return nil
}

func (r *assessmentRepo) find(ctx context.Context, filter bson.M) ([]*model.Assessment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assessments []*model.Assessment
	if err = cursor.All(ctx, &assessments); err != nil {
		return nil, err
	}
	return assessments, nil
}
