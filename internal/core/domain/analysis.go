package domain

import "time"

// AnalysisResult holds the figures an analyzer recorded for one commit.
type AnalysisResult struct {
	RunID        string
	CommitID     string
	CommitDate   string
	Artifacts    int
	LinesAdded   int
	LinesRemoved int
	AnalysedAt   time.Time
}
