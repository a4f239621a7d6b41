// Package messaging 借阅事件发布
//
// 事件发布是尽力而为的:借还已经提交,发布失败只记录日志和指标,不回传给调用方。
// 下游持续不可用时由熔断器快速失败,避免每次借还都等待超时。
package messaging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
)

// Sender 底层消息发送能力,*mq.Publisher实现了该接口
type Sender interface {
	Exchange() string
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Publisher 带熔断的事件发布者
type Publisher struct {
	sender  Sender
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	log     *zap.Logger
}

// NewPublisher 创建事件发布者
func NewPublisher(sender Sender, log *zap.Logger) *Publisher {
	breaker := circuitbreaker.New("mq-publisher", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	})

	return &Publisher{
		sender:  sender,
		breaker: breaker,
		timeout: 3 * time.Second,
		log:     log,
	}
}

// Publish 发布事件,失败时只记录
func (p *Publisher) Publish(ctx context.Context, routingKey string, event interface{}) {
	// 请求ctx随响应结束取消,发布使用独立的超时
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	err := p.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		return p.sender.Publish(ctx, routingKey, event)
	})

	labels := map[string]string{
		"exchange":    p.sender.Exchange(),
		"routing_key": routingKey,
		"result":      "success",
	}
	if err != nil {
		labels["result"] = "failure"
		p.log.Warn("事件发布失败", zap.String("routing_key", routingKey), zap.Error(err))
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, labels)
}

// Breaker 返回内部熔断器
func (p *Publisher) Breaker() *circuitbreaker.CircuitBreaker {
	return p.breaker
}

// Noop 未启用消息队列时使用
type Noop struct{}

func (Noop) Publish(context.Context, string, interface{}) {}
