package domain

import (
	"time"

	"gorm.io/datatypes"
)

type LoginAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"column:email;index;not null" json:"email"`
	Success   bool      `gorm:"column:success;not null" json:"success"`
	IPAddress string    `gorm:"column:ip_address" json:"ip_address"`
	UserAgent string    `gorm:"column:user_agent" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

func (LoginAttempt) TableName() string {
	return "login_attempts"
}

const (
	SecurityActionRoleChange    = "role_change"
	SecurityActionBalanceAdjust = "balance_adjust"
	SecurityActionContentUpdate = "content_update"
	SecurityActionSupplyUpdate  = "supply_update"
	SecurityActionWalletVerify  = "wallet_verify"
	SecurityActionUserUpdate    = "user_update"
	SecurityActionUserDelete    = "user_delete"
)

// SecurityLog is an append-only audit trail of sensitive mutations. Detail
// carries the action-specific payload as JSON.
type SecurityLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"column:user_id;index" json:"user_id"`
	Action    string         `gorm:"column:action;index;not null" json:"action"`
	Detail    datatypes.JSON `gorm:"column:detail" json:"detail,omitempty"`
	IPAddress string         `gorm:"column:ip_address" json:"ip_address"`
	CreatedAt time.Time      `json:"created_at"`
}

func (SecurityLog) TableName() string {
	return "security_logs"
}
