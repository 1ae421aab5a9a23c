package mq

import (
	"context"
	"sync"
)

// Publisher 消息生产者接口
type Publisher interface {
	Publish(ctx context.Context, event *DomainEvent) error
}

// 确保Producer实现Publisher接口
var _ Publisher = (*Producer)(nil)

// NopPublisher rabbitmq.enabled=false 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *DomainEvent) error { return nil }

// MemoryPublisher 记录所有投递的事件
type MemoryPublisher struct {
	mu     sync.Mutex
	events []*DomainEvent
}

func (p *MemoryPublisher) Publish(_ context.Context, event *DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *MemoryPublisher) Events() []*DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}
