package domain

import "time"

// SnapshotMeta describes when and by what a snapshot was taken.
type SnapshotMeta struct {
	Version   int       `json:"version"`
	Storage   string    `json:"storage"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is the full serializable state of the ledger core: every entity
// the store owns plus the sequence counter that preserves transaction
// ordering across restore. The storage medium is an external concern.
type Snapshot struct {
	Meta         SnapshotMeta            `json:"meta"`
	Accounts     []Account               `json:"accounts"`
	Transactions []Transaction           `json:"transactions"`
	Journals     []Journal               `json:"journals"`
	Sessions     []ReconciliationSession `json:"sessions"`
	NextSeq      uint64                  `json:"nextSeq"`
}
