// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields. Deletes are hard deletes; the catalog keeps
// no tombstones and no versions.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type Category string

const (
	CategoryPaid Category = "produk"
	CategoryFree Category = "gratis"
)

func (c Category) Valid() bool {
	return c == CategoryPaid || c == CategoryFree
}

type ChangeAction string

const (
	ChangeActionInsert ChangeAction = "INSERT"
	ChangeActionUpdate ChangeAction = "UPDATE"
	ChangeActionDelete ChangeAction = "DELETE"
)
