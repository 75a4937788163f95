package event

import (
	"context"
	log "log/slog"
)

// DirectPublisher 未配置 Kafka 时在进程内直接交给 Handler
type DirectPublisher struct {
	handler Handler
}

func NewDirectPublisher(h Handler) *DirectPublisher {
	return &DirectPublisher{handler: h}
}

func (p *DirectPublisher) Publish(ctx context.Context, e *Event) error {
	if p.handler == nil {
		return nil
	}
	if err := p.handler.Handle(context.WithoutCancel(ctx), e); err != nil {
		log.WarnContext(ctx, "direct event dispatch failed", "type", e.Type, "event_id", e.ID, "err", err)
		return err
	}
	return nil
}

// NopPublisher 丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }

// Recorder 记录发布过的事件
type Recorder struct {
	Events []*Event
}

func (r *Recorder) Publish(_ context.Context, e *Event) error {
	r.Events = append(r.Events, e)
	return nil
}

// Types 按发布顺序返回事件类型
func (r *Recorder) Types() []Type {
	out := make([]Type, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
