// internal/models/event_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeEventDecode(t *testing.T) {
	payload := []byte(`{
		"table": "products",
		"action": "INSERT",
		"row": {
			"id": "550e8400-e29b-41d4-a716-446655440000",
			"name": "Kit Desain",
			"price": 75000,
			"original_price": 100000,
			"slug": "kit-desain",
			"category": "produk",
			"marketplace_link": "https://example.com/item",
			"created_at": "2024-01-15T10:30:00.000000+00:00"
		}
	}`)

	var event ChangeEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, TableProducts, event.Table)
	assert.Equal(t, ChangeActionInsert, event.Action)

	product, err := event.Product()
	require.NoError(t, err)
	assert.Equal(t, "Kit Desain", product.Name)
	assert.Equal(t, int64(75000), product.Price)
	require.NotNil(t, product.OriginalPrice)
	assert.Equal(t, int64(100000), *product.OriginalPrice)
	assert.Equal(t, "kit-desain", product.Address())
	assert.Equal(t, 2024, product.CreatedAt.Year())
}

func TestChangeEventDecodeInvalidRow(t *testing.T) {
	event := ChangeEvent{
		Table:  TableProducts,
		Action: ChangeActionUpdate,
		Row:    json.RawMessage(`"not an object"`),
	}

	_, err := event.Product()
	assert.Error(t, err)
}
