package service

import (
	"context"
	"time"

	"cryolab-data/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SessionCreatedEvent webhook 负载
type SessionCreatedEvent struct {
	Event       string `json:"event"`
	SessionID   string `json:"session_id"`
	UserName    string `json:"user_name"`
	GridBoxName string `json:"grid_box_name"`
	Date        string `json:"date"`
}

// Notifier posts lab events to an optional external notification endpoint
// (Slack bridge, LIMS hook). Disabled when no URL is configured.
type Notifier struct {
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
}

// NewNotifier 创建 Notifier；URL 为空时返回 nil（调用侧按禁用处理）
func NewNotifier(cfg config.WebhookConfig, logger *zap.Logger) *Notifier {
	if cfg.URL == "" {
		return nil
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Notifier{httpClient: client, url: cfg.URL, logger: logger}
}

func (n *Notifier) SessionCreated(ctx context.Context, ev SessionCreatedEvent) {
	ev.Event = "session_created"
	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(ev).
		Post(n.url)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.String("session_id", ev.SessionID), zap.Error(err))
		return
	}
	if resp.IsError() {
		n.logger.Warn("webhook returned error status",
			zap.String("session_id", ev.SessionID),
			zap.Int("status", resp.StatusCode()),
		)
	}
}
