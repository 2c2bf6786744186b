package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mindgauge/internal/apperr"
	"mindgauge/internal/cache"
	"mindgauge/internal/engine"
	"mindgauge/internal/log"
	"mindgauge/internal/model"
	"mindgauge/internal/repository"
)

// AssessmentService drives the session state machine: start, the question
// loop, and completion. All writes to one assessment are serialized through
// version-guarded updates in the repository.
type AssessmentService struct {
	assessments repository.AssessmentRepo
	questions   repository.QuestionRepo
	batches     cache.BatchCache
	filter      *engine.DemographicFilter
	resolver    *engine.BranchResolver
	notifier    Notifier
}

func NewAssessmentService(
	assessments repository.AssessmentRepo,
	questions repository.QuestionRepo,
	batches cache.BatchCache,
	filter *engine.DemographicFilter,
	resolver *engine.BranchResolver,
) *AssessmentService {
	return &AssessmentService{
		assessments: assessments,
		questions:   questions,
		batches:     batches,
		filter:      filter,
		resolver:    resolver,
	}
}

// SetNotifier wires the reviewer event feed
func (s *AssessmentService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start creates a session and returns it with the bootstrap demographic batch
func (s *AssessmentService) Start(ctx context.Context, userID string) (*model.Assessment, []*model.Question, error) {
	a := &model.Assessment{
		UserID:    userID,
		Status:    model.AssessmentInProgress,
		Responses: []model.Response{},
		StartedAt: time.Now(),
	}
	if err := s.assessments.Create(ctx, a); err != nil {
		return nil, nil, fmt.Errorf("create assessment: %w", err)
	}

	batch, err := s.computeNext(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	s.cacheBatch(ctx, a.ID, batch)
	s.notify(EventAssessmentStarted, map[string]string{
		"assessmentId": a.ID,
		"userId":       a.UserID,
	})
	return a, batch, nil
}

// NextQuestions returns the pending batch. Idempotent between submissions:
// the cached batch is served until the next answer invalidates it.
func (s *AssessmentService) NextQuestions(ctx context.Context, userID, id string) ([]*model.Question, error) {
	a, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AssessmentInProgress {
		return nil, apperr.Conflict("assessment %s is %s", id, a.Status)
	}

	if batch, ok, err := s.batches.GetNext(ctx, id); err == nil && ok {
		return batch, nil
	} else if err != nil {
		log.Warnf("batch cache read failed for %s: %v", id, err)
	}

	batch, err := s.computeNext(ctx, a)
	if err != nil {
		return nil, err
	}
	s.cacheBatch(ctx, id, batch)
	return batch, nil
}

// SubmitResponse validates and appends one answer, then resolves the next
// batch. An empty batch means the flow is exhausted and the assessment is
// ready to complete.
func (s *AssessmentService) SubmitResponse(ctx context.Context, userID, id, questionID string, rawAnswer json.RawMessage) ([]*model.Question, error) {
	if questionID == "" {
		return nil, apperr.InvalidInput("questionId is required")
	}
	if len(rawAnswer) == 0 {
		return nil, apperr.InvalidInput("answer is required")
	}

	a, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AssessmentInProgress {
		return nil, apperr.Conflict("assessment %s is %s", id, a.Status)
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if q == nil {
		return nil, apperr.NotFound("question %s not found", questionID)
	}

	answer, err := model.ParseAnswer(q, rawAnswer)
	if err != nil {
		return nil, apperr.InvalidInput("%v", err)
	}

	resp := model.Response{
		QuestionID: questionID,
		Question:   *q,
		Answer:     answer,
		AnsweredAt: time.Now(),
	}
	if err := s.assessments.AppendResponse(ctx, a.ID, a.Version, &resp); err != nil {
		if errors.Is(err, repository.ErrNotMatched) {
			return nil, s.explainNotMatched(ctx, id, questionID)
		}
		return nil, fmt.Errorf("append response: %w", err)
	}
	a.Responses = append(a.Responses, resp)
	a.Version++

	batch, err := s.computeNext(ctx, a)
	if err != nil {
		return nil, err
	}
	s.cacheBatch(ctx, a.ID, batch)
	s.notify(EventResponseRecorded, map[string]interface{}{
		"assessmentId": a.ID,
		"questionId":   questionID,
		"answered":     len(a.Responses),
	})
	return batch, nil
}

// Complete runs scoring and classification once over the full ledger,
// attaches the result, and closes the session. One-way.
func (s *AssessmentService) Complete(ctx context.Context, userID, id string) (*model.Result, error) {
	a, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AssessmentInProgress {
		return nil, apperr.Conflict("assessment %s is %s", id, a.Status)
	}

	scores := engine.Score(a.Responses)
	result := engine.Classify(scores, s.filter.Extract(a.Responses))

	if err := s.assessments.Complete(ctx, id, &result, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotMatched) {
			return nil, apperr.Conflict("assessment %s is no longer in progress", id)
		}
		return nil, fmt.Errorf("complete assessment: %w", err)
	}

	if err := s.batches.Clear(ctx, id); err != nil {
		log.Warnf("batch cache clear failed for %s: %v", id, err)
	}
	s.notify(EventAssessmentCompleted, map[string]interface{}{
		"assessmentId": id,
		"condition":    result.Condition,
		"severity":     result.SeverityLevel,
	})
	return &result, nil
}

// Get returns an assessment for its owner or any reviewer
func (s *AssessmentService) Get(ctx context.Context, userID string, role model.Role, id string) (*model.Assessment, error) {
	a, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	if a == nil {
		return nil, apperr.NotFound("assessment %s not found", id)
	}
	if a.UserID != userID && !role.IsReviewer() {
		return nil, apperr.Forbidden("not allowed to read assessment %s", id)
	}
	return a, nil
}

// List returns the caller's assessments, or every assessment for reviewers
func (s *AssessmentService) List(ctx context.Context, userID string, role model.Role) ([]*model.Assessment, error) {
	if role.IsReviewer() {
		return s.assessments.ListAll(ctx)
	}
	return s.assessments.ListByUser(ctx, userID)
}

// Abandon is the administrative terminal transition
func (s *AssessmentService) Abandon(ctx context.Context, id string) error {
	if err := s.assessments.Abandon(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotMatched) {
			a, gerr := s.assessments.GetByID(ctx, id)
			if gerr == nil && a == nil {
				return apperr.NotFound("assessment %s not found", id)
			}
			return apperr.Conflict("assessment %s is not in progress", id)
		}
		return fmt.Errorf("abandon assessment: %w", err)
	}
	if err := s.batches.Clear(ctx, id); err != nil {
		log.Warnf("batch cache clear failed for %s: %v", id, err)
	}
	return nil
}

// computeNext resolves the pending batch from the ledger tail: bootstrap
// demographics for an empty ledger, otherwise branch resolution on the last
// answer with demographic-filter fallback.
func (s *AssessmentService) computeNext(ctx context.Context, a *model.Assessment) ([]*model.Question, error) {
	if len(a.Responses) == 0 {
		initial, err := s.questions.GetInitial(ctx)
		if err != nil {
			return nil, fmt.Errorf("get initial questions: %w", err)
		}
		if len(initial) > engine.BatchSize {
			initial = initial[:engine.BatchSize]
		}
		return initial, nil
	}

	last := a.LastResponse()
	if last.Question.IsFinal {
		return []*model.Question{}, nil
	}

	demographics := s.filter.Extract(a.Responses)
	excluded := make(map[string]bool, len(a.Responses))
	for _, id := range a.AnsweredIDs() {
		excluded[id] = true
	}

	next, err := s.resolver.Resolve(ctx, &last.Question, last.Answer, demographics, excluded)
	if err != nil {
		return nil, fmt.Errorf("resolve branch: %w", err)
	}
	if next != nil {
		return []*model.Question{next}, nil
	}

	candidates, err := s.questions.GetCandidates(ctx, a.AnsweredIDs())
	if err != nil {
		return nil, fmt.Errorf("get candidates: %w", err)
	}
	return s.filter.SelectNext(candidates, excluded, demographics), nil
}

// loadOwned fetches an in-flight or finished assessment and enforces that
// the caller owns it. Reviewer access goes through Get and List instead.
func (s *AssessmentService) loadOwned(ctx context.Context, userID, id string) (*model.Assessment, error) {
	a, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	if a == nil {
		return nil, apperr.NotFound("assessment %s not found", id)
	}
	if a.UserID != userID {
		return nil, apperr.Forbidden("assessment %s belongs to another user", id)
	}
	return a, nil
}

// explainNotMatched re-reads after a guarded append matched nothing and maps
// the reason to an error kind the caller can act on.
func (s *AssessmentService) explainNotMatched(ctx context.Context, id, questionID string) error {
	a, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get assessment: %w", err)
	}
	switch {
	case a == nil:
		return apperr.NotFound("assessment %s not found", id)
	case a.Status != model.AssessmentInProgress:
		return apperr.Conflict("assessment %s is %s", id, a.Status)
	case a.HasAnswered(questionID):
		return apperr.Conflict("question %s already answered", questionID)
	default:
		return apperr.Conflict("assessment %s was modified concurrently", id)
	}
}

func (s *AssessmentService) cacheBatch(ctx context.Context, id string, batch []*model.Question) {
	if err := s.batches.SetNext(ctx, id, batch); err != nil {
		log.Warnf("batch cache write failed for %s: %v", id, err)
	}
}

func (s *AssessmentService) notify(event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Notify(event, payload)
	}
}
