package models

import "gorm.io/datatypes"

// Certificate is a credential shown on the certifications page.
// Date is free text ("March 2024") as entered in the console.
type Certificate struct {
	Base
	Title        string                      `json:"title" db:"title" gorm:"type:text;not null" validate:"required"`
	Issuer       string                      `json:"issuer" db:"issuer" gorm:"type:text;not null" validate:"required"`
	Date         string                      `json:"date" db:"date" gorm:"type:text"`
	CredentialID string                      `json:"credentialId" db:"credential_id" gorm:"type:text"`
	Image        string                      `json:"image" db:"image" gorm:"type:text"`
	Description  string                      `json:"description" db:"description" gorm:"type:text"`
	Skills       datatypes.JSONSlice[string] `json:"skills" db:"skills"`
	Verified     bool                        `json:"verified" db:"verified" gorm:"not null;default:false"`
	Link         string                      `json:"link" db:"link" gorm:"type:text"`
}
