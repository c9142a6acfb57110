package domain

import "time"

// Content is one key-value pair of editable page copy. Section groups keys
// for the admin console (landing, about, faq, ...).
type Content struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:key;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"column:value;type:text" json:"value"`
	Section   string    `gorm:"column:section;index" json:"section"`
	UpdatedBy uint      `gorm:"column:updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Content) TableName() string {
	return "contents"
}
