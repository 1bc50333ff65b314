package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"
	"github.com/run-bigpig/finwise/internal/render"
)

var sessionLog = logger.New("chat")

// FallbackErrorText 传输失败时展示的固定文案，不向用户暴露底层错误
const FallbackErrorText = "Sorry, I encountered an error processing your request."

var (
	// ErrEmptyMessage 空白输入，调用方按无操作处理
	ErrEmptyMessage = errors.New("empty message")
	// ErrBusy 已有请求在途，拒绝并发发送
	ErrBusy = errors.New("a request is already in flight")
	// ErrSessionClosed 会话已关闭
	ErrSessionClosed = errors.New("session closed")
)

// Transport 后端请求边界
type Transport interface {
	// SendCommand 发送命令，返回字符串或保序对象（*render.Object）
	SendCommand(ctx context.Context, command string) (any, error)
	// ChangeMode 请求切换模式，成功返回确认文案
	ChangeMode(ctx context.Context, mode string) (string, error)
	// FetchHelp 获取帮助文本
	FetchHelp(ctx context.Context) (string, error)
}

// PendingListener 在途请求状态回调，驱动前端的输入指示动画
type PendingListener interface {
	PendingStarted()
	PendingFinished()
}

// Session 一问一答的聊天会话
// 同一时刻最多一个在途请求（单飞），并发 Send 直接拒绝；
// 关闭后迟到的响应通过代数计数器丢弃
type Session struct {
	store     *Store
	transport Transport
	listener  PendingListener

	mu         sync.Mutex
	sending    bool
	closed     bool
	generation uint64
}

// NewSession 创建会话
func NewSession(store *Store, transport Transport) *Session {
	return &Session{store: store, transport: transport}
}

// SetPendingListener 设置在途状态回调，nil 表示不通知
func (s *Session) SetPendingListener(l PendingListener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

// Send 发送一条用户消息并等待后端响应
// 空白输入返回 ErrEmptyMessage 且不追加任何条目；
// 在途期间的再次调用返回 ErrBusy；
// 传输失败时追加固定的兜底错误条目，会话回到空闲态
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.sending {
		s.mu.Unlock()
		return ErrBusy
	}
	s.sending = true
	gen := s.generation
	listener := s.listener
	s.mu.Unlock()

	s.store.Append(models.SenderUser, models.PlainText(text))
	if listener != nil {
		listener.PendingStarted()
	}

	payload, err := s.transport.SendCommand(ctx, text)

	s.mu.Lock()
	s.sending = false
	if s.closed || gen != s.generation {
		// 会话已关闭，迟到的响应不再落盘；指示动画由 Close 释放
		s.mu.Unlock()
		sessionLog.Debug("dropping late response for closed session")
		return nil
	}
	s.mu.Unlock()

	if err != nil {
		sessionLog.Warn("transport failure: %v", err)
		s.store.Append(models.SenderBot, models.ErrorFragment(FallbackErrorText))
	} else {
		s.store.Append(models.SenderBot, render.Format(payload))
	}

	if listener != nil {
		listener.PendingFinished()
	}
	return nil
}

// Transcript 当前会话记录快照
func (s *Session) Transcript() []models.ChatEntry {
	return s.store.Entries()
}

// Busy 是否有请求在途
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Close 关闭会话：释放在途指示，丢弃此后到达的响应
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.generation++
	wasSending := s.sending
	listener := s.listener
	s.mu.Unlock()

	if wasSending && listener != nil {
		listener.PendingFinished()
	}
}
