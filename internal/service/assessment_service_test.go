package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgauge/internal/apperr"
	"mindgauge/internal/engine"
	"mindgauge/internal/model"
	"mindgauge/internal/repository"
)

// fakeQuestionRepo is an in-memory, insertion-ordered question bank
type fakeQuestionRepo struct {
	order []string
	bank  map[string]*model.Question
}

func newFakeQuestionRepo(questions ...*model.Question) *fakeQuestionRepo {
	r := &fakeQuestionRepo{bank: map[string]*model.Question{}}
	for _, q := range questions {
		r.order = append(r.order, q.ID)
		r.bank[q.ID] = q
	}
	return r
}

func (r *fakeQuestionRepo) Create(_ context.Context, q *model.Question) error {
	r.order = append(r.order, q.ID)
	r.bank[q.ID] = q
	return nil
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id string) (*model.Question, error) {
	return r.bank[id], nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, q *model.Question) error {
	r.bank[q.ID] = q
	return nil
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id string) error {
	delete(r.bank, id)
	return nil
}

func (r *fakeQuestionRepo) GetAll(_ context.Context) ([]*model.Question, error) {
	return r.all(func(*model.Question) bool { return true }), nil
}

func (r *fakeQuestionRepo) GetByCategory(_ context.Context, category model.Category) ([]*model.Question, error) {
	return r.all(func(q *model.Question) bool { return q.Category == category }), nil
}

func (r *fakeQuestionRepo) GetInitial(_ context.Context) ([]*model.Question, error) {
	return r.all(func(q *model.Question) bool {
		return q.IsInitial && q.Category == model.CategoryDemographic
	}), nil
}

func (r *fakeQuestionRepo) GetCandidates(_ context.Context, excluded []string) ([]*model.Question, error) {
	skip := map[string]bool{}
	for _, id := range excluded {
		skip[id] = true
	}
	return r.all(func(q *model.Question) bool { return !skip[q.ID] }), nil
}

func (r *fakeQuestionRepo) all(keep func(*model.Question) bool) []*model.Question {
	var out []*model.Question
	for _, id := range r.order {
		if q, ok := r.bank[id]; ok && keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// fakeAssessmentRepo mimics the guarded Mongo updates
type fakeAssessmentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Assessment
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{store: map[string]*model.Assessment{}}
}

func (r *fakeAssessmentRepo) Create(_ context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = "assessment-" + time.Now().Format("150405.000000000")
	}
	cp := *a
	cp.Responses = append([]model.Response{}, a.Responses...)
	r.store[a.ID] = &cp
	return nil
}

func (r *fakeAssessmentRepo) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	cp.Responses = append([]model.Response{}, a.Responses...)
	return &cp, nil
}

func (r *fakeAssessmentRepo) ListByUser(_ context.Context, userID string) ([]*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Assessment
	for _, a := range r.store {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssessmentRepo) ListAll(_ context.Context) ([]*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Assessment
	for _, a := range r.store {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAssessmentRepo) AppendResponse(_ context.Context, id string, version int, resp *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.store[id]
	if !ok || a.Status != model.AssessmentInProgress || a.Version != version {
		return repository.ErrNotMatched
	}
	for _, existing := range a.Responses {
		if existing.QuestionID == resp.QuestionID {
			return repository.ErrNotMatched
		}
	}
	a.Responses = append(a.Responses, *resp)
	a.Version++
	return nil
}

func (r *fakeAssessmentRepo) Complete(_ context.Context, id string, result *model.Result, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.store[id]
	if !ok || a.Status != model.AssessmentInProgress {
		return repository.ErrNotMatched
	}
	a.Status = model.AssessmentCompleted
	a.Result = result
	a.CompletedAt = &completedAt
	a.Version++
	return nil
}

func (r *fakeAssessmentRepo) Abandon(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.store[id]
	if !ok || a.Status != model.AssessmentInProgress {
		return repository.ErrNotMatched
	}
	a.Status = model.AssessmentAbandoned
	a.Version++
	return nil
}

// fakeBatchCache distinguishes a stored empty batch from a miss
type fakeBatchCache struct {
	mu      sync.Mutex
	batches map[string][]*model.Question
}

func newFakeBatchCache() *fakeBatchCache {
	return &fakeBatchCache{batches: map[string][]*model.Question{}}
}

func (c *fakeBatchCache) SetNext(_ context.Context, id string, batch []*model.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if batch == nil {
		batch = []*model.Question{}
	}
	c.batches[id] = batch
	return nil
}

func (c *fakeBatchCache) GetNext(_ context.Context, id string) ([]*model.Question, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	batch, ok := c.batches[id]
	return batch, ok, nil
}

func (c *fakeBatchCache) Clear(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.batches, id)
	return nil
}

var testDemoCfg = engine.DemographicConfig{
	AgeQuestionID:        "demo-age",
	GenderQuestionID:     "demo-gender",
	ProfessionQuestionID: "demo-profession",
}

func testBank() []*model.Question {
	return []*model.Question{
		{
			ID: "demo-age", Text: "How old are you?", Type: model.QuestionTypeNumber,
			Category: model.CategoryDemographic, AgeRange: model.DefaultAgeRange, IsInitial: true,
		},
		{
			ID: "demo-gender", Text: "What is your gender?", Type: model.QuestionTypeText,
			Category: model.CategoryDemographic, AgeRange: model.DefaultAgeRange, IsInitial: true,
		},
		{
			ID: "demo-profession", Text: "What is your occupation?", Type: model.QuestionTypeText,
			Category: model.CategoryDemographic, AgeRange: model.DefaultAgeRange, IsInitial: true,
		},
		{
			ID: "q-sleep", Text: "Rate your sleep", Type: model.QuestionTypeScale,
			MinValue: 0, MaxValue: 10,
			Category: model.CategoryPhysical, AgeRange: model.DefaultAgeRange,
			NextQuestionRules: []model.Rule{
				{Condition: model.RuleGreaterThan, Value: model.RuleValue{Number: 5}, NextQuestionID: "q-final"},
			},
			DefaultNextQuestionID: "q-worry",
			ConditionMapping:      map[model.Condition]float64{model.ConditionAnxiety: 1},
		},
		{
			ID: "q-worry", Text: "Rate your worry", Type: model.QuestionTypeScale,
			MinValue: 0, MaxValue: 10,
			Category: model.CategoryEmotional, AgeRange: model.DefaultAgeRange,
			DefaultNextQuestionID: "q-final",
			ConditionMapping:      map[model.Condition]float64{model.ConditionAnxiety: 2},
		},
		{
			ID: "q-final", Text: "Anything else?", Type: model.QuestionTypeText,
			Category: model.CategoryGeneral, AgeRange: model.DefaultAgeRange, IsFinal: true,
		},
	}
}

func newTestService(questions ...*model.Question) (*AssessmentService, *fakeQuestionRepo) {
	if questions == nil {
		questions = testBank()
	}
	questionRepo := newFakeQuestionRepo(questions...)
	filter := engine.NewDemographicFilter(testDemoCfg)
	resolver := engine.NewBranchResolver(questionRepo, filter)
	svc := NewAssessmentService(newFakeAssessmentRepo(), questionRepo, newFakeBatchCache(), filter, resolver)
	return svc, questionRepo
}

func TestStart_ReturnsInitialDemographicBatch(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, batch, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, model.AssessmentInProgress, a.Status)
	assert.Empty(t, a.Responses)
	require.Len(t, batch, 3)
	assert.Equal(t, "demo-age", batch[0].ID)
	assert.Equal(t, "demo-gender", batch[1].ID)
	assert.Equal(t, "demo-profession", batch[2].ID)
}

func TestNextQuestions_IdempotentBetweenSubmissions(t *testing.T) {
	svc, questionRepo := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	first, err := svc.NextQuestions(ctx, "user-1", a.ID)
	require.NoError(t, err)

	// Growing the bank must not change the cached batch
	questionRepo.Create(ctx, &model.Question{
		ID: "q-new", Text: "new", Type: model.QuestionTypeText,
		Category: model.CategoryGeneral, AgeRange: model.DefaultAgeRange,
	})

	second, err := svc.NextQuestions(ctx, "user-1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSubmitResponse_AppendsInOrderAndFollowsRules(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	for _, step := range []struct {
		questionID string
		answer     string
	}{
		{"demo-age", `30`},
		{"demo-gender", `"female"`},
		{"demo-profession", `"technology"`},
	} {
		_, err := svc.SubmitResponse(ctx, "user-1", a.ID, step.questionID, json.RawMessage(step.answer))
		require.NoError(t, err)
	}

	// greaterThan 5 rule routes to q-final
	batch, err := svc.SubmitResponse(ctx, "user-1", a.ID, "q-sleep", json.RawMessage(`8`))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "q-final", batch[0].ID)

	stored, err := svc.Get(ctx, "user-1", model.RoleUser, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-age", "demo-gender", "demo-profession", "q-sleep"}, stored.AnsweredIDs())
}

func TestSubmitResponse_DefaultWhenNoRuleMatches(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	batch, err := svc.SubmitResponse(ctx, "user-1", a.ID, "q-sleep", json.RawMessage(`3`))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "q-worry", batch[0].ID)
}

func TestSubmitResponse_FinalQuestionEndsFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	batch, err := svc.SubmitResponse(ctx, "user-1", a.ID, "q-final", json.RawMessage(`"nothing"`))
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestSubmitResponse_DuplicateQuestionConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "demo-age", json.RawMessage(`30`))
	require.NoError(t, err)

	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "demo-age", json.RawMessage(`31`))
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	stored, err := svc.Get(ctx, "user-1", model.RoleUser, a.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Responses, 1)
}

func TestSubmitResponse_ValidationErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "", json.RawMessage(`1`))
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "demo-age", nil)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "ghost", json.RawMessage(`1`))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// q-sleep is a scale 0-10
	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "q-sleep", json.RawMessage(`42`))
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = svc.SubmitResponse(ctx, "user-1", "ghost-session", "demo-age", json.RawMessage(`30`))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestComplete_ProducesResultAndIsOneWay(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	// Single scale response, value 8, weight 1, anxiety max 50:
	// normalized 1.6, severity 2, mild tier
	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "q-sleep", json.RawMessage(`8`))
	require.NoError(t, err)

	result, err := svc.Complete(ctx, "user-1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConditionAnxiety, result.Condition)
	assert.Equal(t, 2, result.SeverityLevel)
	assert.NotEmpty(t, result.Recommendations)

	stored, err := svc.Get(ctx, "user-1", model.RoleUser, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentCompleted, stored.Status)
	require.NotNil(t, stored.Result)
	assert.NotNil(t, stored.CompletedAt)

	// Completion is one-way
	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "q-worry", json.RawMessage(`5`))
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Complete(ctx, "user-1", a.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.NextQuestions(ctx, "user-1", a.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestOwnership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	// Another user may not touch the session
	_, err = svc.SubmitResponse(ctx, "user-2", a.ID, "demo-age", json.RawMessage(`30`))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Get(ctx, "user-2", model.RoleUser, a.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	// Reviewers get read access
	_, err = svc.Get(ctx, "counselor-1", model.RoleCounselor, a.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, "admin-1", model.RoleAdmin, a.ID)
	assert.NoError(t, err)
}

func TestAbandon(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.Abandon(ctx, a.ID))

	stored, err := svc.Get(ctx, "user-1", model.RoleUser, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentAbandoned, stored.Status)

	// Terminal: no more answers, no second abandon
	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "demo-age", json.RawMessage(`30`))
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.True(t, apperr.Is(svc.Abandon(ctx, a.ID), apperr.KindConflict))

	assert.True(t, apperr.Is(svc.Abandon(ctx, "ghost"), apperr.KindNotFound))
}

func TestList_ScopedByRole(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)
	_, _, err = svc.Start(ctx, "user-2")
	require.NoError(t, err)

	own, err := svc.List(ctx, "user-1", model.RoleUser)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	all, err := svc.List(ctx, "counselor-1", model.RoleCounselor)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStaleVersionConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	// A concurrent writer bumps the version between load and append
	_, err = svc.SubmitResponse(ctx, "user-1", a.ID, "demo-age", json.RawMessage(`30`))
	require.NoError(t, err)

	// Force a stale append through the repo directly
	repo := svc.assessments.(*fakeAssessmentRepo)
	err = repo.AppendResponse(ctx, a.ID, 0, &model.Response{QuestionID: "demo-gender"})
	assert.ErrorIs(t, err, repository.ErrNotMatched)
}
