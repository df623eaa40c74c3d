package calculator

import "time"

// RecordStatsData is one statistics reading as printed by the stats command
type RecordStatsData struct {
	Type      string    `json:"type"`
	Stats     any       `json:"stats"`
	Timestamp time.Time `json:"timestamp"`
}
