package service

import "strings"

// Call statuses. A call starts in_progress and reaches exactly one terminal
// status when the ended webhook arrives.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusError      = "error"
	StatusVoicemail  = "voicemail"
)

var disconnectStatus = map[string]string{
	"user_hangup":               StatusCompleted,
	"agent_hangup":              StatusCompleted,
	"call_transfer":             StatusCompleted,
	"inactivity":                StatusCompleted,
	"max_duration_reached":      StatusCompleted,
	"voicemail_reached":         StatusVoicemail,
	"machine_detected":          StatusVoicemail,
	"dial_busy":                 StatusError,
	"dial_failed":               StatusError,
	"dial_no_answer":            StatusError,
	"call_failed":               StatusError,
	"concurrency_limit_reached": StatusError,
}

// StatusForDisconnect maps a vendor disconnect reason to a terminal call
// status. Vendor error reasons are prefixed "error_"; unknown reasons count
// as completed so an unrecognized hangup variant never hides a finished call.
func StatusForDisconnect(reason string) string {
	if status, ok := disconnectStatus[reason]; ok {
		return status
	}
	if strings.HasPrefix(reason, "error") {
		return StatusError
	}
	return StatusCompleted
}
