package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SysBoxModel 站内通知，每条事件按接收者展开为多条
type SysBoxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiver_id"`
	SenderID   uint64             `bson:"sender_id" json:"sender_id"` // 0 表示系统
	Type       string             `bson:"type" json:"type"`           // 与事件类型一致，如 article.approved
	TargetID   uint64             `bson:"target_id" json:"target_id"` // 文章ID或评论ID
	Content    string             `bson:"content" json:"content"`
	Payload    map[string]any     `bson:"payload,omitempty" json:"payload"`

	// EventID 同一事件重复投递时用于去重
	EventID   string    `bson:"event_id" json:"-"`
	IsRead    bool      `bson:"is_read" json:"is_read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
