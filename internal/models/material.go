package models

import "time"

const (
	MaterialNote       = "NOTE"
	MaterialVocabulary = "VOCABULARY"

	// DefaultVocabularyCategory is used for items submitted without a category.
	DefaultVocabularyCategory = "Inne"
)

type Material struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Title           string           `gorm:"size:255;not null" json:"title"`
	Subject         string           `gorm:"size:30;not null" json:"subject"`
	Scope           string           `gorm:"column:zakres;size:20;not null" json:"zakres"`
	Topic           string           `gorm:"column:dzial;size:100;not null" json:"dzial"`
	MaterialType    string           `gorm:"size:20;not null" json:"material_type"`
	CreatedBy       uint             `gorm:"not null;index" json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
	Note            *MaterialText    `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE;" json:"note,omitempty"`
	VocabularyItems []VocabularyItem `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE;" json:"vocabulary_items,omitempty"`
}

// MaterialText is the body of a NOTE material.
type MaterialText struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	MaterialID uint   `gorm:"not null;uniqueIndex" json:"material_id"`
	Content    string `gorm:"type:text;not null" json:"content"`
}

func (MaterialText) TableName() string { return "material_notes" }

type VocabularyItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	MaterialID uint    `gorm:"not null;index" json:"material_id"`
	WordEN     string  `gorm:"column:word_en;size:255;not null" json:"word_en"`
	WordPL     string  `gorm:"column:word_pl;size:255;not null" json:"word_pl"`
	ImageURL   *string `gorm:"size:500" json:"image_url"`
	AudioURL   *string `gorm:"size:500" json:"audio_url"`
	Category   *string `gorm:"size:100" json:"category"`
}

// CategoryOrDefault returns the item's category, falling back to "Inne".
func (v VocabularyItem) CategoryOrDefault() string {
	if v.Category == nil || *v.Category == "" {
		return DefaultVocabularyCategory
	}
	return *v.Category
}
