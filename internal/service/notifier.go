package service

// Event names published to the reviewer monitor feed
const (
	EventAssessmentStarted   = "assessment_started"
	EventResponseRecorded    = "response_recorded"
	EventAssessmentCompleted = "assessment_completed"
)

// Notifier pushes assessment lifecycle events to connected reviewers.
// Implemented by the WebSocket hub; delivery is best effort.
type Notifier interface {
	Notify(event string, payload interface{})
}
