// Package responses defines API response types used by notionbridge HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/notionbridge/internal/notion"
)

// UpsertResponse is the success payload of the create-or-update endpoint.
type UpsertResponse struct {
	Mode     string       `json:"mode"`
	Page     *notion.Page `json:"page"`
	Warnings []string     `json:"warnings,omitempty"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	OK        bool      `json:"ok"`
	Status    string    `json:"status"`
	Uptime    float64   `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}
