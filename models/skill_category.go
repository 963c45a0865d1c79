package models

import "gorm.io/datatypes"

const (
	IconCode     = "Code"
	IconServer   = "Server"
	IconDatabase = "Database"
	IconPalette  = "Palette"
)

var SkillIcons = []string{IconCode, IconServer, IconDatabase, IconPalette}

// SkillLevel is one entry of a skill category; Level is a percentage.
type SkillLevel struct {
	Name  string `json:"name" validate:"required"`
	Level int    `json:"level" validate:"min=1,max=100"`
}

// SkillCategory groups skills under an icon on the about page.
type SkillCategory struct {
	Base
	Category string                          `json:"category" db:"category" gorm:"type:text;not null" validate:"required"`
	Icon     string                          `json:"icon" db:"icon" gorm:"type:text;not null" validate:"required,skill_icon"`
	Skills   datatypes.JSONSlice[SkillLevel] `json:"skills" db:"skills" validate:"min=1,dive"`
}
