package project

import "time"

// Project owns languages. Version is bumped on every update and checked on
// write, so concurrent updates surface as optimistic lock conflicts.
type Project struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"column:name;size:255;not null" json:"name"`
	Slug           string    `gorm:"column:slug;size:255;uniqueIndex" json:"slug"`
	BaseLanguageID *int64    `gorm:"column:base_language_id" json:"base_language_id,omitempty"`
	Version        int64     `gorm:"column:version;not null;default:0" json:"version"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Project) TableName() string { return "project" }

// Language is a target (or base) locale of a project. Tag is unique per
// project.
type Language struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID    int64     `gorm:"column:project_id;not null;uniqueIndex:idx_language_project_tag" json:"project_id"`
	Tag          string    `gorm:"column:tag;size:20;not null;uniqueIndex:idx_language_project_tag" json:"tag"`
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	OriginalName string    `gorm:"column:original_name;size:100" json:"original_name,omitempty"`
	FlagEmoji    string    `gorm:"column:flag_emoji;size:20" json:"flag_emoji,omitempty"`
	Version      int64     `gorm:"column:version;not null;default:0" json:"version"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Language) TableName() string { return "language" }

// LanguageDTO is the input for creating or editing a language.
type LanguageDTO struct {
	Tag          string `json:"tag"`
	Name         string `json:"name"`
	OriginalName string `json:"original_name,omitempty"`
	FlagEmoji    string `json:"flag_emoji,omitempty"`
}

// DefaultBaseLanguage is created when a project has no languages at all.
var DefaultBaseLanguage = LanguageDTO{
	Tag:          "en",
	Name:         "English",
	OriginalName: "English",
	FlagEmoji:    "🇬🇧",
}
