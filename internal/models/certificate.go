package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate records a completion milestone. The composite unique index on
// (owner_id, collection_id) is what makes issuance idempotent: a second
// insert for the same pair is rejected by the store, not by an application
// level existence check alone.
type Certificate struct {
	gorm.Model
	OwnerID      string    `json:"owner_id" gorm:"not null;uniqueIndex:idx_certificates_owner_collection"`
	CollectionID string    `json:"collection_id" gorm:"not null;uniqueIndex:idx_certificates_owner_collection"`
	SerialNumber string    `json:"serial_number" gorm:"uniqueIndex;not null"`
	IssuedAt     time.Time `json:"issued_at"`
}

// TableName specifies the table name for GORM
func (Certificate) TableName() string {
	return "certificates"
}
