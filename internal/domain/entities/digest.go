package entities

// Digest is the daily notification listing topics due for review.
type Digest struct {
	Topics     []DueTopic // due topics, most overdue first, possibly truncated
	TotalDue   int        // due topics before truncation
	InRecovery int        // due topics currently in recovery mode
}
