package models

import (
	"time"

	"gorm.io/gorm"
)

// CallRecord is one audited tool invocation. Only bridge telemetry is
// stored; report and vulnerability payloads returned by the API are not
// persisted.
type CallRecord struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	SessionID    string         `gorm:"type:varchar(64);index" json:"session_id,omitempty"`
	ToolName     string         `gorm:"type:varchar(255);index;not null" json:"tool_name"`
	InputJSON    string         `gorm:"type:text" json:"input_json"`
	Endpoint     string         `gorm:"type:varchar(512)" json:"endpoint,omitempty"`
	HTTPStatus   int            `gorm:"index" json:"http_status,omitempty"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	Success      bool           `gorm:"index" json:"success"`
}
