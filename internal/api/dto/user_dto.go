package dto

import "time"

type RegisterDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

// LoginDTO Account 可以是用户名或邮箱
type LoginDTO struct {
	Account  string `json:"account" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResultDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *UserDTO  `json:"user"`
}

type UserDTO struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserBriefDTO 嵌在文章、评论里的作者信息
type UserBriefDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

type ChangeRoleDTO struct {
	Role   string `json:"role" validate:"required,oneof=admin editor author reader"`
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type RoleChangeDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	OldRole   string    `json:"old_role"`
	NewRole   string    `json:"new_role"`
	ChangedBy uint64    `json:"changed_by"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
