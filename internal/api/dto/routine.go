package dto

import (
	"time"
)

// BatchSummary is the result of one daily billing routine run.
type BatchSummary struct {
	RunDate     time.Time `json:"run_date"`
	ChargesAged int       `json:"charges_aged"`
	Eligible    int       `json:"eligible"`
	Sent        int       `json:"sent"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
}
