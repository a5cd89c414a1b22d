package client

// StatusLabel maps an appointment status to its operator-facing label.
// Unknown statuses are returned unchanged rather than masked by a fallback.
func StatusLabel(status string) string {
	switch status {
	case StatusPending:
		return "awaiting confirmation"
	case StatusConfirmed:
		return "confirmed"
	case StatusCompleted:
		return "completed"
	case StatusCanceled:
		return "canceled"
	default:
		return status
	}
}
