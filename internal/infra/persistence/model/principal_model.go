// Package model holds the GORM persistence models of the postgres driver.
package model

import (
	"time"

	"github.com/google/uuid"
)

// PrincipalModel mirrors the 'principals' table.
// Position is a database sequence that preserves insertion order for listings.
type PrincipalModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Position     int64      `gorm:"autoIncrement;not null;uniqueIndex"`
	Name         string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Address      string     `gorm:"type:varchar(400);not null"`
	Role         string     `gorm:"type:varchar(20);not null"`
	OwnedStoreID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (PrincipalModel) TableName() string {
	return "principals"
}

// CredentialModel mirrors the 'credentials' table, one row per principal.
type CredentialModel struct {
	PrincipalID  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Principal    *PrincipalModel `gorm:"foreignKey:PrincipalID;constraint:OnDelete:CASCADE"`
	PasswordHash string          `gorm:"type:varchar(255);not null"`
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "credentials"
}
