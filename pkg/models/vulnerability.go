package models

// Vulnerability mirrors the vulnerability resource as the backing API
// returns it. Each vulnerability belongs to exactly one report.
type Vulnerability struct {
	ID          string  `json:"_id,omitempty"`
	ReportID    string  `json:"reportId,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Details     string  `json:"details,omitempty"`
	Impact      string  `json:"impact,omitempty"`
	Remediation string  `json:"remediation,omitempty"`
	CVSS        string  `json:"cvss,omitempty"`
	CVSSScore   float64 `json:"cvssScore,omitempty"`
	Severity    string  `json:"severity,omitempty"`
	TaskID      string  `json:"taskId,omitempty"`
}
