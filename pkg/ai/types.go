package ai

import "context"

// DigestEntry is one activity log rendered for summarization.
type DigestEntry struct {
	TeacherName  string
	ActivityType string
	Description  string
}

// Summarizer describes an AI model capable of producing a short executive
// synopsis of a day's activity logs.
type Summarizer interface {
	Summarize(ctx context.Context, entries []DigestEntry) (string, error)
}
