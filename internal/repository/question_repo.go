package repository

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mindgauge/internal/model"
)

type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id string) (*model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id string) error

	GetAll(ctx context.Context) ([]*model.Question, error)
	GetByCategory(ctx context.Context, category model.Category) ([]*model.Question, error)

	// GetInitial returns the bootstrap demographic questions
	GetInitial(ctx context.Context) ([]*model.Question, error)

	// GetCandidates returns every question not in excluded, for the
	// demographic filter to narrow down
	GetCandidates(ctx context.Context, excluded []string) ([]*model.Question, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	_, err := r.collection.InsertOne(ctx, question)
	return err
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) Update(ctx context.Context, question *model.Question) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": question.ID}, question)
	return err
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *questionRepo) GetAll(ctx context.Context) ([]*model.Question, error) {
	return r.find(ctx, bson.M{})
}

func (r *questionRepo) GetByCategory(ctx context.Context, category model.Category) ([]*model.Question, error) {
	return r.find(ctx, bson.M{"category": category})
}

func (r *questionRepo) GetInitial(ctx context.Context) ([]*model.Question, error) {
	return r.find(ctx, bson.M{
		"isInitial": true,
		"category":  model.CategoryDemographic,
	})
}

func (r *questionRepo) GetCandidates(ctx context.Context, excluded []string) ([]*model.Question, error) {
	if excluded == nil {
		excluded = []string{}
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$nin": excluded}})
}

func (r *questionRepo) find(ctx context.Context, filter bson.M) ([]*model.Question, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
