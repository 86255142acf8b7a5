package model

import "gorm.io/gorm"

const defaultImageFile = "default.jpg"

// User is an author of posts.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email     string `json:"email" gorm:"uniqueIndex;size:120;not null"`
	ImageFile string `json:"image_file" gorm:"size:200;not null"`
	// ImagePath is derived from ImageFile and never stored.
	ImagePath string `json:"image_path" gorm:"-"`

	// Deleting a user removes their posts with them.
	Posts []Post `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate fills in the default profile image.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ImageFile == "" {
		u.ImageFile = defaultImageFile
	}
	return nil
}

// AfterFind resolves the derived media path.
func (u *User) AfterFind(tx *gorm.DB) error {
	u.ResolveImagePath()
	return nil
}

// ResolveImagePath recomputes ImagePath from ImageFile. Called by GORM hooks
// and after in-place mutations that bypass a reload.
func (u *User) ResolveImagePath() {
	if u.ImageFile == "" {
		u.ImageFile = defaultImageFile
	}
	u.ImagePath = "/media/" + u.ImageFile
}
