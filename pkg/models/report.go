package models

// Report mirrors the report resource as the backing API returns it. The API
// assigns the 24-character hexadecimal id; this bridge never generates one.
type Report struct {
	ID              string   `json:"_id,omitempty"`
	Title           string   `json:"title,omitempty"`
	Platform        string   `json:"platform,omitempty"`
	TemplateID      string   `json:"templateId,omitempty"`
	Testers         []string `json:"testers,omitempty"`
	Goal            string   `json:"goal,omitempty"`
	Scope           string   `json:"scope,omitempty"`
	Summary         *Summary `json:"summary,omitempty"`
	Recommendations string   `json:"recommendations,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// Summary is the nested report summary object.
type Summary struct {
	Description string `json:"description,omitempty"`
	KeyFindings string `json:"keyFindings,omitempty"`
}
