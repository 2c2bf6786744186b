package service

import (
	"context"
	"fmt"

	"mindgauge/internal/apperr"
	"mindgauge/internal/model"
	"mindgauge/internal/repository"
)

// QuestionService is plain CRUD over the question bank, with authoring
// validation so malformed rules never reach the resolver.
type QuestionService struct {
	questions repository.QuestionRepo
}

func NewQuestionService(questions repository.QuestionRepo) *QuestionService {
	return &QuestionService{questions: questions}
}

func (s *QuestionService) Create(ctx context.Context, q *model.Question) (*model.Question, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, apperr.InvalidInput("%v", err)
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *QuestionService) Get(ctx context.Context, id string) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if q == nil {
		return nil, apperr.NotFound("question %s not found", id)
	}
	return q, nil
}

func (s *QuestionService) Update(ctx context.Context, q *model.Question) (*model.Question, error) {
	existing, err := s.questions.GetByID(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("question %s not found", q.ID)
	}
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, apperr.InvalidInput("%v", err)
	}
	if err := s.questions.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, id string) error {
	existing, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get question: %w", err)
	}
	if existing == nil {
		return apperr.NotFound("question %s not found", id)
	}
	return s.questions.Delete(ctx, id)
}

// List returns the bank, optionally narrowed to one category
func (s *QuestionService) List(ctx context.Context, category string) ([]*model.Question, error) {
	if category == "" {
		return s.questions.GetAll(ctx)
	}
	return s.questions.GetByCategory(ctx, model.Category(category))
}
