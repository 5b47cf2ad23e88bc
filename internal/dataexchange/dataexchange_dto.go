package dataexchange

import "io"

type ImportInput struct {
	FileName string
	Content  io.Reader
	DryRun   bool
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	BatchNo string     `json:"batch_no,omitempty"`
	DryRun  bool       `json:"dry_run"`
	Total   int        `json:"total"`
	Created int        `json:"created"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

func (r *ImportResult) fail(row int, msg string) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{Row: row, Message: msg})
}
