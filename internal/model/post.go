package model

import (
	"time"

	"gorm.io/gorm"
)

// Post is a blog entry owned by a user. Author is eager-loaded on every read
// path so callers never see a half-resolved post.
type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:100;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	DatePosted time.Time `json:"date_posted"`
	Author     User      `json:"author" gorm:"foreignKey:UserID"`
}

// BeforeCreate stamps the publication time. DatePosted is written exactly
// once; no update path touches it afterwards.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.DatePosted.IsZero() {
		p.DatePosted = time.Now().UTC()
	}
	return nil
}
