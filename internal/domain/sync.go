package domain

import "time"

// SyncSummary is the single outcome record produced by one sync cycle.
type SyncSummary struct {
	PostsUpdated    int
	ImagesProcessed int
	Errors          []string
	Success         bool
	DryRun          bool
	Duration        time.Duration
}

func (s *SyncSummary) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}
