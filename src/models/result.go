package models

// ImportStatus is the per-file outcome of a batch import.
type ImportStatus string

const (
	ImportSucceeded ImportStatus = "SUCCEEDED"
	ImportSkipped   ImportStatus = "SKIPPED"
	ImportFailed    ImportStatus = "FAILED"
)

// ImportFileResult records the outcome of one file in a batch. A Skipped
// file carries the reason in Error; it is not a failure.
type ImportFileResult struct {
	FileName         string       `json:"file_name"`
	Status           ImportStatus `json:"status"`
	TransactionCount int          `json:"transaction_count"`
	Error            string       `json:"error,omitempty"`
}

// SaveOutcome is the persistence gateway's report for one saved batch.
// Skipped counts duplicates recognized by their dedup hash.
type SaveOutcome struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}
