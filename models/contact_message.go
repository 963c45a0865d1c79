package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage is a visitor submission. It is never updated.
type ContactMessage struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null" validate:"required"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null" validate:"required"`
	Subject   string    `json:"subject" db:"subject" gorm:"type:text;not null" validate:"required"`
	Message   string    `json:"message" db:"message" gorm:"type:text;not null" validate:"required"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;index"`
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *ContactMessage) GetID() uuid.UUID {
	return m.ID
}

func (m *ContactMessage) SetID(id uuid.UUID) {
	m.ID = id
}

func (m *ContactMessage) ResetServerFields() {
	m.ID = uuid.Nil
	m.CreatedAt = time.Time{}
}
