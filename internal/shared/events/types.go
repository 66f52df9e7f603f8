package events

// Report event type constants.
const (
	ReportGeneratedType = "ReportGenerated"
	ReportFetchedType   = "ReportFetched"
	ReportsEvictedType  = "ReportsEvicted"
)

// ReportGeneratedEvent is emitted when a report has been rendered and,
// for async requests, parked in the artifact store.
type ReportGeneratedEvent struct {
	BaseEvent

	// Format is the rendered output format ("pdf" or "xlsx").
	Format string `json:"format"`

	// Size is the artifact size in bytes.
	Size int `json:"size"`

	// Cached reports whether the artifact was stored for later retrieval.
	Cached bool `json:"cached"`
}

// NewReportGeneratedEvent creates a new ReportGeneratedEvent. For sync
// requests key is empty.
func NewReportGeneratedEvent(key, format string, size int, cached bool) *ReportGeneratedEvent {
	return &ReportGeneratedEvent{
		BaseEvent: NewBaseEvent(ReportGeneratedType, key),
		Format:    format,
		Size:      size,
		Cached:    cached,
	}
}

// ReportFetchedEvent is emitted when a stored artifact is fetched by key.
type ReportFetchedEvent struct {
	BaseEvent

	// Format is the stored output format.
	Format string `json:"format"`

	// Hit reports whether the key resolved to a live artifact.
	Hit bool `json:"hit"`
}

// NewReportFetchedEvent creates a new ReportFetchedEvent.
func NewReportFetchedEvent(key, format string, hit bool) *ReportFetchedEvent {
	return &ReportFetchedEvent{
		BaseEvent: NewBaseEvent(ReportFetchedType, key),
		Format:    format,
		Hit:       hit,
	}
}

// ReportsEvictedEvent is emitted by the janitor after an eviction pass
// that removed at least one artifact.
type ReportsEvictedEvent struct {
	BaseEvent

	// Removed is the number of artifacts evicted in this pass.
	Removed int `json:"removed"`
}

// NewReportsEvictedEvent creates a new ReportsEvictedEvent.
func NewReportsEvictedEvent(removed int) *ReportsEvictedEvent {
	return &ReportsEvictedEvent{
		BaseEvent: NewBaseEvent(ReportsEvictedType, ""),
		Removed:   removed,
	}
}
