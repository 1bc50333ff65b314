package services

import (
	"testing"
	"time"
)

// TestSafeCall panic 被捕获，不向外扩散
func TestSafeCall(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic 泄漏: %v", r)
		}
	}()
	safeCall(func() {
		panic("boom")
	})
}

// TestPushMarketStatusTracksChange 状态缓存随轮询更新
func TestPushMarketStatusTracksChange(t *testing.T) {
	status := "Closed"
	p := NewChatPusher(nil, func(now time.Time) string { return status })

	p.pushMarketStatus()
	if p.lastStatus != "Closed" {
		t.Errorf("lastStatus = %q, 期望 Closed", p.lastStatus)
	}

	status = "Open"
	p.pushMarketStatus()
	if p.lastStatus != "Open" {
		t.Errorf("lastStatus = %q, 期望 Open", p.lastStatus)
	}
}

// TestEmitWithoutContext ctx 未就绪时事件静默丢弃
func TestEmitWithoutContext(t *testing.T) {
	p := NewChatPusher(nil, nil)

	// 没有 wails 上下文时所有推送都应安全返回
	p.PendingStarted()
	p.PendingFinished()
	p.Toast("info", "hello")
	p.pushMarketStatus()
	p.pushMarketMood()
}

// TestStopIdempotent 重复 Stop 不 panic
func TestStopIdempotent(t *testing.T) {
	p := NewChatPusher(nil, nil)
	p.running = true
	p.Stop()
	p.Stop()
}
