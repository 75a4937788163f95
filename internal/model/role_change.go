package model

import "time"

// RoleChange 角色变更审计记录，只追加不修改
type RoleChange struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_role_change_user" json:"user_id"`
	OldRole   string    `gorm:"type:varchar(16);not null" json:"old_role"`
	NewRole   string    `gorm:"type:varchar(16);not null" json:"new_role"`
	ChangedBy uint64    `gorm:"not null" json:"changed_by"`
	Reason    string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (RoleChange) TableName() string {
	return "role_changes"
}
