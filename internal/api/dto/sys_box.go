package dto

// SysBoxDTO 站内通知返回对象
type SysBoxDTO struct {
	ID         string         `json:"id"`
	SenderID   uint64         `json:"sender_id"`
	SenderName string         `json:"sender_name"`
	Type       string         `json:"type"`      // 事件类型，如 article.approved
	TargetID   uint64         `json:"target_id"` // 文章ID
	Content    string         `json:"content"`
	Payload    map[string]any `json:"payload"`
	IsRead     bool           `json:"is_read"`
	CreatedAt  string         `json:"created_at"`
}

// SysBoxUnreadDTO 未读数返回
type SysBoxUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}
