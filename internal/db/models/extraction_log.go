package models

// ExtractionLog stores one extraction run summary for the history page
type ExtractionLog struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Timestamp    int64  `gorm:"index" json:"timestamp"`
	Resource     string `gorm:"index" json:"resource"`
	AccountID    string `json:"account_id,omitempty"`
	BusinessID   string `json:"business_id,omitempty"`
	BusinessUUID string `json:"business_uuid,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Total        int    `json:"total"`
	Truncated    bool   `json:"truncated"`
	Duration     int64  `json:"duration"` // milliseconds
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// ExtractionStats holds aggregated statistics for extraction runs
type ExtractionStats struct {
	TotalRuns    int64 `json:"total_runs"`
	SuccessCount int64 `json:"success_count"`
	ErrorCount   int64 `json:"error_count"`
}
