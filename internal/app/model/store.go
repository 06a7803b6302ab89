package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreStatus string // approval state of a store application

const (
	StoreStatusPending  StoreStatus = "pending"
	StoreStatusApproved StoreStatus = "approved"
	StoreStatusRejected StoreStatus = "rejected"

	// StoreStatusNotRegistered is a read-path sentinel, never persisted.
	StoreStatusNotRegistered StoreStatus = "not registered"
)

type Store struct {
	ID          string      `gorm:"primarykey" json:"id"`
	UserID      string      `gorm:"uniqueIndex;not null" json:"user_id"` // one store per user
	Name        string      `gorm:"not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Username    string      `gorm:"uniqueIndex;not null" json:"username"` // stored lower-cased
	Email       string      `gorm:"not null" json:"email"`
	Contact     string      `gorm:"not null" json:"contact"`
	Address     string      `gorm:"type:text" json:"address"`
	Logo        string      `json:"logo"` // derived display URL, not the raw object key
	Status      StoreStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}

// BeforeCreate assigns the store id and defaults the status.
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = StoreStatusPending
	}
	return nil
}
