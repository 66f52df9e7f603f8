// Package report implements report generation and retrieval: rendering via
// the external render service, sync/async dispatch and the TTL-bounded
// artifact cache behind retrieval keys.
package report

import (
	"encoding/json"
	"strings"
)

// OutputFormat is the rendered report format.
type OutputFormat string

const (
	FormatPDF  OutputFormat = "pdf"
	FormatXLSX OutputFormat = "xlsx"
)

// ParseFormat normalizes a client-supplied output format. An empty value
// defaults to PDF, matching the designer's requests.
func ParseFormat(s string) (OutputFormat, bool) {
	switch strings.ToLower(s) {
	case "", "pdf":
		return FormatPDF, true
	case "xlsx":
		return FormatXLSX, true
	default:
		return "", false
	}
}

// ContentType returns the MIME type for the format.
func (f OutputFormat) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/pdf"
	}
}

// Mode selects how rendered bytes are delivered.
type Mode string

const (
	// ModeSync streams the rendered bytes back in the generation response.
	ModeSync Mode = "sync"
	// ModeAsync parks the bytes in the artifact store and returns a key.
	ModeAsync Mode = "async"
)

// GenerateRequest is the PUT /api/report/run payload, as sent by the
// designer.
type GenerateRequest struct {
	Report       json.RawMessage `json:"report"`
	Data         json.RawMessage `json:"data"`
	OutputFormat string          `json:"outputFormat"`
	Mode         string          `json:"mode"`
	IsTestData   bool            `json:"isTestData"`
}

// DeliveryMode resolves the request's mode. PDF defaults to async (the
// designer fetches by key), everything else to sync.
func (r *GenerateRequest) DeliveryMode(format OutputFormat) Mode {
	switch strings.ToLower(r.Mode) {
	case string(ModeSync):
		return ModeSync
	case string(ModeAsync):
		return ModeAsync
	}
	if format == FormatPDF {
		return ModeAsync
	}
	return ModeSync
}

// GenerateResult is the outcome of a generation request. For async PDF
// requests Key is set and Payload is nil; otherwise Payload carries the
// rendered bytes.
type GenerateResult struct {
	Key     string
	Payload []byte
	Format  OutputFormat
}

// Async reports whether the result is delivered by key.
func (r *GenerateResult) Async() bool {
	return r.Key != ""
}

// CacheInfo is the GET /api/report/cache response.
type CacheInfo struct {
	TTLSeconds int64       `json:"ttl_seconds"`
	CacheSize  int         `json:"cache_size"`
	Items      []CacheItem `json:"items"`
}

// CacheItem describes one live artifact.
type CacheItem struct {
	Key        string `json:"key"`
	Format     string `json:"format"`
	Size       int    `json:"size"`
	AgeSeconds int64  `json:"age_seconds"`
}
