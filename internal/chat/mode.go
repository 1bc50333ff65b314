package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/run-bigpig/finwise/internal/models"
)

// ModeController 当前交互模式的唯一持有者
// 模式只在后端确认成功后才切换，失败时保持原值
type ModeController struct {
	mu        sync.RWMutex
	current   models.Mode
	transport Transport
}

// NewModeController 创建模式控制器，初始为顾问模式
func NewModeController(transport Transport) *ModeController {
	return &ModeController{
		current:   models.ModeAdvisor,
		transport: transport,
	}
}

// Current 当前模式
func (c *ModeController) Current() models.Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// RequestModeChange 请求切换模式，成功返回后端的确认文案
func (c *ModeController) RequestModeChange(ctx context.Context, mode string) (string, error) {
	if !models.ValidMode(mode) {
		return "", fmt.Errorf("unknown mode: %s", mode)
	}

	msg, err := c.transport.ChangeMode(ctx, mode)
	if err != nil {
		// 切换失败不改动当前模式，也不展示确认
		sessionLog.Warn("mode change to %s failed: %v", mode, err)
		return "", err
	}

	c.mu.Lock()
	c.current = models.Mode(mode)
	c.mu.Unlock()
	return msg, nil
}
