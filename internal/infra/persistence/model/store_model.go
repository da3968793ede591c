package model

import (
	"time"

	"github.com/google/uuid"
)

// StoreModel mirrors the 'stores' table. rating_count and average_rating are
// written only by the ledger's aggregate recompute.
type StoreModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position      int64           `gorm:"autoIncrement;not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(100);not null"`
	Email         string          `gorm:"type:varchar(255);not null"`
	Address       string          `gorm:"type:varchar(400);not null"`
	OwnerID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Owner         *PrincipalModel `gorm:"foreignKey:OwnerID"`
	RatingCount   int             `gorm:"not null;default:0"`
	AverageRating float64         `gorm:"not null;default:0"`
	CreatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (StoreModel) TableName() string {
	return "stores"
}

// RatingModel mirrors the 'ratings' table; (user_id, store_id) is unique.
type RatingModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int64           `gorm:"autoIncrement;not null;uniqueIndex"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_store"`
	User      *PrincipalModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_store;index"`
	Store     *StoreModel     `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Value     int16           `gorm:"not null;check:chk_ratings_value,value BETWEEN 1 AND 5"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RatingModel) TableName() string {
	return "ratings"
}

// All lists every model in dependency order for schema migration.
func All() []any {
	return []any{
		&PrincipalModel{},
		&CredentialModel{},
		&StoreModel{},
		&RatingModel{},
	}
}
