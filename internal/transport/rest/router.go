package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"mindgauge/internal/service"
	"mindgauge/internal/transport/rest/handler"
	"mindgauge/internal/transport/rest/middleware"
	"mindgauge/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	QuestionService   *service.QuestionService
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService)
	questionHandler := handler.NewQuestionHandler(c.QuestionService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")

	// WebSocket monitor (token in query param)
	v1.HandleFunc("/ws/monitor", wsHandler.MonitorWS).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Assessment routes (any authenticated caller; ownership is checked in
	// the service layer)
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireAuth)

	userRoutes.HandleFunc("/assessments", assessmentHandler.Start).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/assessments", assessmentHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}/questions", assessmentHandler.NextQuestions).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}/responses", assessmentHandler.SubmitResponse).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}/complete", assessmentHandler.Complete).Methods("POST", "OPTIONS")

	// Admin routes
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/assessments/{id}/abandon", assessmentHandler.Abandon).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", questionHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", questionHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", questionHandler.Delete).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
