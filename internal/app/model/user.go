package model

import (
	"time"
)

// User mirrors an identity-provider account. Rows are created and removed
// by the identity sync worker, never by the registration path.
type User struct {
	ID        string    `gorm:"primarykey" json:"id"` // identity-provider user id
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image"` // profile image URL
	StoreID   *string   `gorm:"index" json:"store_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

func (User) TableName() string {
	return "users"
}
