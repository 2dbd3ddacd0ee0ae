package erpsync

// ---------------------------------------------------------------------------
// SyncStats / SyncProgress Value Objects
// ---------------------------------------------------------------------------

// SyncStats accumulates per-record outcomes across the pages of one run
type SyncStats struct {
	// Created counts records newly inserted locally
	Created int `json:"created"`
	// Updated counts records that already existed and were overwritten
	Updated int `json:"updated"`
	// Errors counts rows that failed translation or upsert
	Errors int `json:"errors"`
}

// Merge folds another page's stats into the receiver
func (s *SyncStats) Merge(other SyncStats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Errors += other.Errors
}

// SyncProgress describes how far a paginated sync has advanced. It is
// transient state: each run starts at offset 0 unless the caller supplies an
// explicit offset, which is how externally driven batch syncs resume.
type SyncProgress struct {
	// Total is the remote row count reported by the ERP
	Total int `json:"total"`
	// CompletedFrom is the 1-based position of the first row this page covered
	CompletedFrom int `json:"completed_from"`
	// CompletedTo is the 1-based position of the last row this page covered
	CompletedTo int `json:"completed_to"`
	// NextOffset is the offset the next page must start at
	NextOffset int `json:"next_offset"`
	// HasMore reports whether rows remain past NextOffset
	HasMore bool `json:"has_more"`
}

// NewSyncProgress derives the progress for a page that processed
// processedCount rows starting at offset, out of total remote rows.
func NewSyncProgress(total, offset, processedCount int) SyncProgress {
	next := offset + processedCount
	return SyncProgress{
		Total:         total,
		CompletedFrom: offset + 1,
		CompletedTo:   next,
		NextOffset:    next,
		HasMore:       next < total,
	}
}

// BatchResult is what one SyncBatch call returns: enough state for the
// caller to request the next page.
type BatchResult struct {
	Stats    SyncStats    `json:"stats"`
	Progress SyncProgress `json:"progress"`
}
