// internal/storage/models/pool.go
package models

import "time"

// PoolRecord is the persisted projection of one bonding-curve pool.
// Amounts are scaled integers (lamports / token base units) stored as
// numeric columns to avoid precision loss.
type PoolRecord struct {
	BaseModel
	PoolID      string `gorm:"unique;not null;type:varchar(64)"`
	TokenMint   string `gorm:"index;not null;type:varchar(44)"`
	Creator     string `gorm:"index;not null;type:varchar(44)"`
	Name        string `gorm:"not null;type:varchar(100)"`
	Symbol      string `gorm:"not null;type:varchar(20)"`
	Description string `gorm:"type:text"`

	Status string `gorm:"not null;type:varchar(20)"`

	SolReserve    uint64 `gorm:"type:numeric(20,0);default:0"`
	TokensSold    uint64 `gorm:"type:numeric(20,0);default:0"`
	TotalSupply   uint64 `gorm:"type:numeric(20,0);not null"`
	DBCAllocation uint64 `gorm:"type:numeric(20,0);not null"`

	PlatformFeeBps uint64 `gorm:"not null"`
	CreatorFeeBps  uint64 `gorm:"not null"`

	AccruedPlatform uint64 `gorm:"type:numeric(20,0);default:0"`
	AccruedCreator  uint64 `gorm:"type:numeric(20,0);default:0"`
	ClaimedPlatform uint64 `gorm:"type:numeric(20,0);default:0"`
	ClaimedCreator  uint64 `gorm:"type:numeric(20,0);default:0"`

	TradeCount   uint64 `gorm:"default:0"`
	VolumeGross  uint64 `gorm:"type:numeric(20,0);default:0"`
	LargestTrade uint64 `gorm:"type:numeric(20,0);default:0"`

	AMMPoolID  string     `gorm:"type:varchar(64)"`
	MigratedAt *time.Time `gorm:"index"`
}
