// internal/storage/models/event.go
package models

// Transition event kinds.
const (
	EventLaunch  = "launch"
	EventBuy     = "buy"
	EventClaim   = "claim"
	EventMigrate = "migrate"
)

// TransitionEvent is one applied state transition, recorded with the
// before/after reserve and sold values so any pool state can be
// replayed and audited from the history alone.
type TransitionEvent struct {
	BaseModel
	EventID string `gorm:"unique;not null;type:varchar(36)"`
	PoolID  string `gorm:"index;not null;type:varchar(64)"`
	Kind    string `gorm:"index;not null;type:varchar(10)"`
	Caller  string `gorm:"not null;type:varchar(44)"`

	SolIn       uint64 `gorm:"type:numeric(20,0);default:0"`
	TokensOut   uint64 `gorm:"type:numeric(20,0);default:0"`
	PlatformFee uint64 `gorm:"type:numeric(20,0);default:0"`
	CreatorFee  uint64 `gorm:"type:numeric(20,0);default:0"`

	ReserveBefore uint64 `gorm:"type:numeric(20,0);default:0"`
	ReserveAfter  uint64 `gorm:"type:numeric(20,0);default:0"`
	SoldBefore    uint64 `gorm:"type:numeric(20,0);default:0"`
	SoldAfter     uint64 `gorm:"type:numeric(20,0);default:0"`

	Bucket        string `gorm:"type:varchar(10)"`
	ClaimedAmount uint64 `gorm:"type:numeric(20,0);default:0"`

	AMMPoolID string `gorm:"type:varchar(64)"`
	Signature string `gorm:"type:varchar(88)"`
}
