package models

import "gorm.io/datatypes"

// Project categories accepted by the admin console.
const (
	CategoryFullStack = "Full Stack"
	CategoryFrontend  = "Frontend"
	CategoryBackend   = "Backend"
	CategoryMobile    = "Mobile"
)

var ProjectCategories = []string{CategoryFullStack, CategoryFrontend, CategoryBackend, CategoryMobile}

// Project represents a portfolio project with its case-study lists
type Project struct {
	Base
	Title           string                      `json:"title" db:"title" gorm:"type:text;not null" validate:"required"`
	Description     string                      `json:"description" db:"description" gorm:"type:text;not null" validate:"required"`
	LongDescription string                      `json:"longDescription" db:"long_description" gorm:"type:text"`
	Image           string                      `json:"image" db:"image" gorm:"type:text"`
	Images          datatypes.JSONSlice[string] `json:"images" db:"images"`
	Technologies    datatypes.JSONSlice[string] `json:"technologies" db:"technologies"`
	Category        string                      `json:"category" db:"category" gorm:"type:text;not null" validate:"required,project_category"`
	Github          string                      `json:"github" db:"github" gorm:"type:text"`
	Live            string                      `json:"live" db:"live" gorm:"type:text"`
	Featured        bool                        `json:"featured" db:"featured" gorm:"not null;default:false"`
	Duration        string                      `json:"duration" db:"duration" gorm:"type:text"`
	Team            string                      `json:"team" db:"team" gorm:"type:text"`
	Challenges      datatypes.JSONSlice[string] `json:"challenges" db:"challenges"`
	Features        datatypes.JSONSlice[string] `json:"features" db:"features"`
	Results         datatypes.JSONSlice[string] `json:"results" db:"results"`
}
