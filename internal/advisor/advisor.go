// Package advisor 驱动 AI 顾问：按优先级遍历可用模型，带重试地执行模式 Agent
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/run-bigpig/finwise/internal/ai"
	"github.com/run-bigpig/finwise/internal/ai/mcp"
	"github.com/run-bigpig/finwise/internal/ai/tools"
	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

var log = logger.New("advisor")

const (
	// MaxRetries 单个模型的最大重试次数
	MaxRetries = 2
	// RetryBaseDelay 重试基础延迟
	RetryBaseDelay = 2 * time.Second
	// RetryMaxDelay 重试延迟上限
	RetryMaxDelay = 15 * time.Second
	// AgentTimeout 单次 Agent 执行超时
	AgentTimeout = 90 * time.Second
	// historyTurns 保留的对话轮数
	historyTurns = 5
)

// ErrNoModelAvailable 无可用 AI 配置
var ErrNoModelAvailable = errors.New("no AI model available")

// ConfigService 配置能力边界
type ConfigService interface {
	ActiveAIConfigs() []models.AIConfig
	Preferences() models.Preferences
}

// MoodProvider 市场情绪能力边界
type MoodProvider interface {
	MarketMood(ctx context.Context) string
}

// turn 一轮问答
type turn struct {
	Query  string
	Answer string
}

// Service AI 顾问服务
type Service struct {
	configs      ConfigService
	mood         MoodProvider
	modelFactory *ai.ModelFactory
	toolRegistry *tools.Registry
	mcpManager   *mcp.Manager

	mu      sync.Mutex
	history []turn
}

// NewService 创建顾问服务
func NewService(configs ConfigService, mood MoodProvider, registry *tools.Registry, mcpMgr *mcp.Manager) *Service {
	return &Service{
		configs:      configs,
		mood:         mood,
		modelFactory: ai.NewModelFactory(),
		toolRegistry: registry,
		mcpManager:   mcpMgr,
	}
}

// Advise 按当前模式生成回复
// 按优先级遍历可用模型，单个模型失败后重试，仍失败则切换下一个
func (s *Service) Advise(ctx context.Context, query string, mode models.Mode) (string, error) {
	configs := s.configs.ActiveAIConfigs()
	if len(configs) == 0 {
		return "", ErrNoModelAvailable
	}

	contextBlock := s.buildContextBlock(ctx, query)

	var lastErr error
	for i := range configs {
		cfg := &configs[i]
		log.Info("使用模型 %s (%s) 处理查询", cfg.ModelName, cfg.Provider)

		answer, err := retryRun(ctx, MaxRetries, func() (string, error) {
			return s.runOnce(ctx, cfg, mode, query, contextBlock)
		})
		if err == nil {
			s.recordTurn(query, answer)
			return answer, nil
		}
		lastErr = err
		log.Warn("模型 %s 失败，切换下一个: %v", cfg.ModelName, err)
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

// runOnce 用指定配置执行一次完整的 Agent 会话
func (s *Service) runOnce(ctx context.Context, cfg *models.AIConfig, mode models.Mode, query, contextBlock string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, AgentTimeout)
	defer cancel()

	llm, err := s.modelFactory.CreateModel(runCtx, cfg)
	if err != nil {
		return "", fmt.Errorf("create model config error: %w", err)
	}

	builder := ai.NewAgentBuilderFull(llm, s.toolRegistry, s.mcpManager)
	agentInstance, err := builder.BuildModeAgent(mode, contextBlock)
	if err != nil {
		return "", err
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        "finwise",
		Agent:          agentInstance,
		SessionService: sessionService,
	})
	if err != nil {
		return "", err
	}

	sessionID := fmt.Sprintf("session-%s-%d", mode, time.Now().UnixNano())
	_, err = sessionService.Create(runCtx, &session.CreateRequest{
		AppName:   "finwise",
		UserID:    "user",
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("create session error: %w", err)
	}

	userMsg := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(query),
		},
	}

	var content string
	runCfg := agent.RunConfig{}
	for event, err := range r.Run(runCtx, "user", sessionID, userMsg, runCfg) {
		if err != nil {
			return "", err
		}
		if event == nil || event.LLMResponse.Content == nil {
			continue
		}
		for _, part := range event.LLMResponse.Content.Parts {
			if part.Thought {
				continue
			}
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	if strings.TrimSpace(content) == "" {
		return "", errors.New("empty response from AI model")
	}
	return content, nil
}

// buildContextBlock 拼接注入提示词的实时上下文
func (s *Service) buildContextBlock(ctx context.Context, query string) string {
	var b strings.Builder

	if s.mood != nil {
		b.WriteString("Current Market Context:\n")
		b.WriteString(s.mood.MarketMood(ctx))
		b.WriteString("\n\n")
	}

	prefs := s.configs.Preferences()
	fmt.Fprintf(&b, "User Preferences:\n- Detail Level: %s\n- Risk Profile: %s\n", prefs.DetailLevel, prefs.RiskProfile)

	if recent := s.recentContext(); recent != "" {
		b.WriteString("\nRecent Conversation:\n")
		b.WriteString(recent)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nCurrent Query: %s", query)
	return b.String()
}

// recentContext 最近两轮问答
func (s *Service) recentContext() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := len(s.history) - 2
	if start < 0 {
		start = 0
	}
	var lines []string
	for _, t := range s.history[start:] {
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", t.Query, t.Answer))
	}
	return strings.Join(lines, "\n")
}

// recordTurn 记录一轮问答，只保留最近几轮
func (s *Service) recordTurn(query, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, turn{Query: query, Answer: answer})
	if len(s.history) > historyTurns {
		s.history = s.history[len(s.history)-historyTurns:]
	}
}

// ResetHistory 清空对话历史
func (s *Service) ResetHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
