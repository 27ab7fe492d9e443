package model

import "cloud.google.com/go/civil"

const (
	OutcomeDownloaded Outcome = "downloaded"
	OutcomeExists     Outcome = "exists"
	OutcomeFailed     Outcome = "error"
)

type Outcome string

// SnapshotLink is one downloadable file listed for a city.
type SnapshotLink struct {
	City string     `json:"city"`
	Date civil.Date `json:"date"`
	URL  string     `json:"url"`
	File string     `json:"file"`
}

type DownloadResult struct {
	Link    SnapshotLink
	Path    string
	Outcome Outcome
	Err     error
}
