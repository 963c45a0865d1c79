package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identifier and timestamps shared by the content collections.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"not null"`
}

// BeforeCreate assigns a fresh id when the caller did not.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Base) GetID() uuid.UUID {
	return b.ID
}

func (b *Base) SetID(id uuid.UUID) {
	b.ID = id
}

// ResetServerFields clears everything the client is not allowed to set.
func (b *Base) ResetServerFields() {
	b.ID = uuid.Nil
	b.CreatedAt = time.Time{}
	b.UpdatedAt = time.Time{}
}

// Record is satisfied by pointers to every stored entity.
type Record[T any] interface {
	*T
	GetID() uuid.UUID
	SetID(uuid.UUID)
	ResetServerFields()
}
