// Package chat 实现会话核心：消息日志、单飞请求会话、快捷命令与模式控制
package chat

import (
	"sync"
	"time"

	"github.com/run-bigpig/finwise/internal/models"

	"github.com/google/uuid"
)

// Store 只追加的消息日志
// 条目创建后不可变，不支持修改与删除，保证会话记录可回放
type Store struct {
	mu      sync.RWMutex
	entries []models.ChatEntry
}

// NewStore 创建消息日志
func NewStore() *Store {
	return &Store{}
}

// Append 追加一条消息，分配唯一 ID 与时间戳
func (s *Store) Append(sender models.Sender, frag models.Fragment) models.ChatEntry {
	entry := models.ChatEntry{
		ID:        uuid.NewString(),
		Sender:    sender,
		Fragment:  frag,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	return entry
}

// Entries 返回当前日志的快照副本
func (s *Store) Entries() []models.ChatEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChatEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len 当前条目数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
