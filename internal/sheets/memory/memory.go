// Package memory is an in-process journal used when no spreadsheet is
// configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"urmoney/internal/sheets"
)

type Journal struct {
	mu   sync.Mutex
	rows []sheets.JournalRow
}

var _ sheets.JournalExporter = (*Journal)(nil)

func New() *Journal {
	return &Journal{}
}

// AppendJournal stores the row and returns a synthetic row reference.
func (j *Journal) AppendJournal(_ context.Context, row sheets.JournalRow) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rows = append(j.rows, row)
	return fmt.Sprintf("mem:%d", len(j.rows)), nil
}

// Rows returns a copy of every appended row in order.
func (j *Journal) Rows() []sheets.JournalRow {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]sheets.JournalRow(nil), j.rows...)
}
