// Package services 聚合桌面端的后台推送服务
package services

import (
	"context"
	"sync"
	"time"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var pusherLog = logger.New("pusher")

// 事件名称常量
const (
	EventChatEntry    = "chat:entry"
	EventChatPending  = "chat:pending"
	EventModeChanged  = "chat:mode"
	EventToast        = "app:toast"
	EventMarketStatus = "market:status:update"
	EventMarketMood   = "market:mood:update"
)

// safeCall 安全调用，捕获 panic 避免崩溃
func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			pusherLog.Error("panic recovered: %v", r)
		}
	}()
	fn()
}

// MoodProvider 市场情绪能力边界
type MoodProvider interface {
	MarketMood(ctx context.Context) string
}

// StatusProvider 市场开闭状态能力边界
type StatusProvider func(now time.Time) string

// ChatPusher 前端事件推送服务
// 实现 chat.PendingListener，把会话状态转成 wails 事件
type ChatPusher struct {
	ctx    context.Context
	mood   MoodProvider
	status StatusProvider

	mu             sync.RWMutex
	lastStatus     string
	lastStatusTime time.Time

	stopChan chan struct{}
	running  bool
}

// NewChatPusher 创建推送服务
func NewChatPusher(mood MoodProvider, status StatusProvider) *ChatPusher {
	return &ChatPusher{
		mood:     mood,
		status:   status,
		stopChan: make(chan struct{}),
	}
}

// Start 启动推送服务，进入市场状态轮询
func (p *ChatPusher) Start(ctx context.Context) {
	p.ctx = ctx
	p.running = true
	go p.pushLoop()
}

// Stop 停止推送服务
func (p *ChatPusher) Stop() {
	if p.running {
		close(p.stopChan)
		p.running = false
	}
}

// PendingStarted 在途请求开始，前端显示输入指示动画
func (p *ChatPusher) PendingStarted() {
	p.emit(EventChatPending, true)
}

// PendingFinished 在途请求结束
func (p *ChatPusher) PendingFinished() {
	p.emit(EventChatPending, false)
}

// PushEntry 推送一条新的会话条目
func (p *ChatPusher) PushEntry(entry models.ChatEntry) {
	p.emit(EventChatEntry, entry)
}

// PushMode 推送模式切换结果
func (p *ChatPusher) PushMode(mode models.Mode) {
	p.emit(EventModeChanged, map[string]string{
		"mode":  string(mode),
		"label": models.ModeLabels[mode],
	})
}

// Toast 推送一条提示消息
func (p *ChatPusher) Toast(level, text string) {
	p.emit(EventToast, map[string]string{
		"level": level,
		"text":  text,
	})
}

// emit 发送事件，ctx 未就绪时静默丢弃
func (p *ChatPusher) emit(event string, payload any) {
	if p.ctx == nil {
		return
	}
	safeCall(func() {
		runtime.EventsEmit(p.ctx, event, payload)
	})
}

// pushLoop 市场状态与情绪的周期推送
// 状态每 30 秒、情绪每 5 分钟；开闭状态不变时不重复推送
func (p *ChatPusher) pushLoop() {
	statusTicker := time.NewTicker(30 * time.Second)
	moodTicker := time.NewTicker(5 * time.Minute)
	defer statusTicker.Stop()
	defer moodTicker.Stop()

	safeCall(p.pushMarketStatus)
	safeCall(p.pushMarketMood)

	for {
		select {
		case <-p.stopChan:
			return
		case <-statusTicker.C:
			safeCall(p.pushMarketStatus)
		case <-moodTicker.C:
			safeCall(p.pushMarketMood)
		}
	}
}

// pushMarketStatus 推送市场开闭状态，仅在变化时发事件
func (p *ChatPusher) pushMarketStatus() {
	if p.status == nil {
		return
	}
	status := p.status(time.Now())

	p.mu.Lock()
	changed := status != p.lastStatus
	p.lastStatus = status
	p.lastStatusTime = time.Now()
	p.mu.Unlock()

	if changed {
		pusherLog.Info("market status changed: %s", status)
		p.emit(EventMarketStatus, status)
	}
}

// pushMarketMood 推送市场情绪摘要
func (p *ChatPusher) pushMarketMood() {
	if p.mood == nil || p.ctx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(p.ctx, 30*time.Second)
	defer cancel()
	p.emit(EventMarketMood, p.mood.MarketMood(ctx))
}
