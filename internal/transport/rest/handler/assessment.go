package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"mindgauge/internal/model"
	"mindgauge/internal/service"
	"mindgauge/internal/transport/rest/middleware"
)

// AssessmentHandler exposes the assessment lifecycle endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
}

func NewAssessmentHandler(assessmentSvc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentSvc: assessmentSvc}
}

// StartResponse pairs the new session with its first question batch
type StartResponse struct {
	Assessment *model.Assessment `json:"assessment"`
	Questions  []*model.Question `json:"questions"`
}

// SubmitResponseRequest carries one answer. The answer payload shape is
// validated against the question's declared type, not guessed from JSON.
type SubmitResponseRequest struct {
	QuestionID string          `json:"questionId"`
	Answer     json.RawMessage `json:"answer"`
}

// BatchResponse is the next-question payload; done indicates an empty batch
type BatchResponse struct {
	Questions []*model.Question `json:"questions"`
	Done      bool              `json:"done"`
}

// Start handles POST /v1/assessments
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	assessment, questions, err := h.assessmentSvc.Start(r.Context(), claims.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, StartResponse{Assessment: assessment, Questions: questions})
}

// List handles GET /v1/assessments
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	assessments, err := h.assessmentSvc.List(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": assessments})
}

// Get handles GET /v1/assessments/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := mux.Vars(r)["id"]

	assessment, err := h.assessmentSvc.Get(r.Context(), claims.UserID, claims.Role, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

// NextQuestions handles GET /v1/assessments/{id}/questions
func (h *AssessmentHandler) NextQuestions(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := mux.Vars(r)["id"]

	questions, err := h.assessmentSvc.NextQuestions(r.Context(), claims.UserID, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BatchResponse{Questions: questions, Done: len(questions) == 0})
}

// SubmitResponse handles POST /v1/assessments/{id}/responses
func (h *AssessmentHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := mux.Vars(r)["id"]

	var req SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	questions, err := h.assessmentSvc.SubmitResponse(r.Context(), claims.UserID, id, req.QuestionID, req.Answer)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BatchResponse{Questions: questions, Done: len(questions) == 0})
}

// Complete handles POST /v1/assessments/{id}/complete
func (h *AssessmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	id := mux.Vars(r)["id"]

	result, err := h.assessmentSvc.Complete(r.Context(), claims.UserID, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Abandon handles POST /v1/assessments/{id}/abandon
func (h *AssessmentHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.assessmentSvc.Abandon(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.AssessmentAbandoned)})
}
