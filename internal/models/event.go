// internal/models/event.go
package models

import "encoding/json"

const (
	TableProducts     = "products"
	TableSiteSettings = "site_settings"
)

// ChangeEvent is the payload emitted by the database NOTIFY triggers and
// relayed to realtime subscribers. Row carries the new row for inserts and
// updates, and the old row for deletes.
type ChangeEvent struct {
	Table  string          `json:"table"`
	Action ChangeAction    `json:"action"`
	Row    json.RawMessage `json:"row,omitempty"`
}

// Product decodes the event row as a product. Settings events always
// trigger a wholesale refetch, so only product rows are ever decoded.
func (e *ChangeEvent) Product() (*Product, error) {
	var p Product
	if err := json.Unmarshal(e.Row, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
