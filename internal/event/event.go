package event

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Type 编辑流程事件类型，同时作为站内通知类型
type Type string

const (
	ArticleSubmitted  Type = "article.submitted"
	ArticleApproved   Type = "article.approved"
	ArticleRejected   Type = "article.rejected"
	ArticlePublished  Type = "article.published"
	ArticleDeleted    Type = "article.deleted"
	DeletionRequested Type = "deletion.requested"
	DeletionApproved  Type = "deletion.approved"
	DeletionRejected  Type = "deletion.rejected"
	CommentReplied    Type = "comment.replied"
	RoleChanged       Type = "user.role_changed"
)

// Audience 除 Recipients 外按角色群发的对象
type Audience string

const (
	AudienceNone  Audience = ""
	AudienceStaff Audience = "staff"
)

type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	ActorID    uint64         `json:"actor_id"`
	ArticleID  uint64         `json:"article_id"`
	TargetID   uint64         `json:"target_id"`
	Title      string         `json:"title"`
	Recipients []uint64       `json:"recipients,omitempty"`
	Audience   Audience       `json:"audience,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func New(t Type, actorID, articleID uint64) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       t,
		ActorID:    actorID,
		ArticleID:  articleID,
		OccurredAt: time.Now(),
	}
}

// To 追加接收者
func (e *Event) To(ids ...uint64) *Event {
	e.Recipients = append(e.Recipients, ids...)
	return e
}

func (e *Event) ToStaff() *Event {
	e.Audience = AudienceStaff
	return e
}

func (e *Event) With(key string, value any) *Event {
	if e.Payload == nil {
		e.Payload = make(map[string]any)
	}
	e.Payload[key] = value
	return e
}

func Encode(e *Event) ([]byte, error) {
	return json.Marshal(e)
}

func Decode(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher 事件发布方，发布在业务提交之后进行，失败只记录日志
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
}

// Handler 事件消费方
type Handler interface {
	Handle(ctx context.Context, e *Event) error
}

// HandlerFunc 函数适配为 Handler
type HandlerFunc func(ctx context.Context, e *Event) error

func (f HandlerFunc) Handle(ctx context.Context, e *Event) error {
	return f(ctx, e)
}
