// Package checkpoint persists the last fully processed page so an import can
// pick up after it.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Store reads and overwrites the import cursor. Load never fails: a missing,
// unreadable or corrupt checkpoint is reported as ok=false.
type Store interface {
	Load(ctx context.Context) (page int, ok bool)
	Save(ctx context.Context, page int) error
}

var errNoPage = errors.New("checkpoint holds no positive page")

type record struct {
	LastCompletedPage int `json:"last_completed_page"`
}

func encode(page int) ([]byte, error) {
	data, err := json.Marshal(record{LastCompletedPage: page})
	if err != nil {
		return nil, fmt.Errorf("marshal checkpoint: %w", err)
	}
	return data, nil
}

func decode(data []byte) (int, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return 0, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	if r.LastCompletedPage <= 0 {
		return 0, errNoPage
	}
	return r.LastCompletedPage, nil
}
