package models

import "time"

// ZipMimeType is the declared type whose fixtures are attached as raw bytes
const ZipMimeType = "application/x-zip-compressed"

// FilePayload is a file attached to a file input
type FilePayload struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"-"`
	Binary   bool   `json:"binary"`
}

// RequestRecord is an observed or issued HTTP exchange
type RequestRecord struct {
	Alias      string    `json:"alias,omitempty"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	Status     int       `json:"status"`
	Body       []byte    `json:"-"`
	ObservedAt time.Time `json:"observed_at"`
}
