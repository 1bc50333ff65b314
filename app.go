package main

import (
	"context"
	"fmt"

	"github.com/run-bigpig/finwise/internal/advisor"
	"github.com/run-bigpig/finwise/internal/ai/mcp"
	"github.com/run-bigpig/finwise/internal/ai/tools"
	"github.com/run-bigpig/finwise/internal/bot"
	"github.com/run-bigpig/finwise/internal/chat"
	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"
	"github.com/run-bigpig/finwise/internal/services"
	"github.com/run-bigpig/finwise/internal/services/analyzer"
	"github.com/run-bigpig/finwise/internal/services/config"
	"github.com/run-bigpig/finwise/internal/services/market"
	"github.com/run-bigpig/finwise/internal/services/portfolio"
	"github.com/run-bigpig/finwise/internal/services/saved"
	"github.com/run-bigpig/finwise/internal/transport"
)

var appLog = logger.New("app")

// App 桌面端应用，聚合全部服务并暴露给前端的绑定方法
type App struct {
	ctx context.Context

	configService    *config.Service
	marketService    *market.Service
	analyzerService  *analyzer.Service
	portfolioManager *portfolio.Manager
	savedStore       *saved.Store
	mcpManager       *mcp.Manager

	bot       *bot.Bot
	transport chat.Transport
	store     *chat.Store
	session   *chat.Session
	modeCtrl  *chat.ModeController
	pusher    *services.ChatPusher
}

// NewApp 组装全部服务
// backendURL 非空时会话走远端 HTTP 后端，否则走进程内分发
func NewApp(backendURL string) (*App, error) {
	configService := config.NewService()

	marketService, err := market.NewService()
	if err != nil {
		return nil, fmt.Errorf("init market service: %w", err)
	}
	analyzerService := analyzer.NewService(marketService)
	portfolioManager := portfolio.NewManager(marketService)

	mcpManager := mcp.NewManager()
	mcpManager.LoadConfigs(configService.MCPServers())

	toolRegistry, err := tools.NewRegistry(marketService, analyzerService, portfolioManager)
	if err != nil {
		return nil, fmt.Errorf("init tool registry: %w", err)
	}
	advisorService := advisor.NewService(configService, marketService, toolRegistry, mcpManager)

	finBot := bot.New(marketService, analyzerService, portfolioManager, advisorService)

	var chatTransport chat.Transport = bot.NewLocalTransport(finBot)
	if backendURL != "" {
		appLog.Info("using remote backend %s", backendURL)
		chatTransport = transport.NewClient(backendURL)
	}

	store := chat.NewStore()
	return &App{
		configService:    configService,
		marketService:    marketService,
		analyzerService:  analyzerService,
		portfolioManager: portfolioManager,
		savedStore:       saved.NewStore(),
		mcpManager:       mcpManager,
		bot:              finBot,
		transport:        chatTransport,
		store:            store,
		session:          chat.NewSession(store, chatTransport),
		modeCtrl:         chat.NewModeController(chatTransport),
		pusher:           services.NewChatPusher(marketService, market.MarketStatus),
	}, nil
}

// startup wails 启动回调
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.pusher.Start(ctx)
	a.session.SetPendingListener(a.pusher)
	appLog.Info("FinWise started")
}

// shutdown wails 退出回调
func (a *App) shutdown(ctx context.Context) {
	a.session.Close()
	a.pusher.Stop()
	appLog.Info("FinWise stopped")
}

// appCtx wails 上下文，startup 前退回 Background
func (a *App) appCtx() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// SendMessage 发送一条用户消息，返回更新后的会话记录
// 空白输入和在途拒绝都静默返回当前记录
func (a *App) SendMessage(text string) []models.ChatEntry {
	before := a.store.Len()
	if err := a.session.Send(a.appCtx(), text); err != nil {
		appLog.Debug("send rejected: %v", err)
	}

	transcript := a.session.Transcript()
	// 新增条目同步推给事件订阅方（多窗口/状态栏）
	for _, entry := range transcript[before:] {
		a.pusher.PushEntry(entry)
	}
	return transcript
}

// GetTranscript 当前会话记录快照
func (a *App) GetTranscript() []models.ChatEntry {
	return a.session.Transcript()
}

// ChangeMode 切换交互模式，成功返回确认文案
func (a *App) ChangeMode(mode string) (string, error) {
	msg, err := a.modeCtrl.RequestModeChange(a.appCtx(), mode)
	if err != nil {
		a.pusher.Toast("error", "Could not switch mode")
		return "", err
	}
	a.pusher.PushMode(a.modeCtrl.Current())
	return msg, nil
}

// GetMode 当前模式
func (a *App) GetMode() string {
	return string(a.modeCtrl.Current())
}

// GetHelp 帮助文本
func (a *App) GetHelp() (string, error) {
	return a.transport.FetchHelp(a.appCtx())
}

// QuickCommand 把快捷命令别名展开为输入框模板，未知别名返回空串
func (a *App) QuickCommand(alias string) string {
	return chat.ResolveQuickCommand(alias)
}

// SaveResponse 收藏一条回复文本
func (a *App) SaveResponse(text string) error {
	if err := a.savedStore.Save(text); err != nil {
		a.pusher.Toast("error", "Could not save response")
		return err
	}
	a.pusher.Toast("success", "Response saved!")
	return nil
}

// ListSavedResponses 全部收藏
func (a *App) ListSavedResponses() ([]models.SavedResponse, error) {
	return a.savedStore.List()
}

// SearchSymbols 代码表搜索，驱动输入联想
func (a *App) SearchSymbols(keyword string, limit int) []models.StockSymbol {
	return a.configService.SearchSymbols(keyword, limit)
}

// GetPreferences 用户偏好
func (a *App) GetPreferences() models.Preferences {
	return a.configService.Preferences()
}

// SetPreferences 更新用户偏好
func (a *App) SetPreferences(prefs models.Preferences) error {
	return a.configService.SetPreferences(prefs)
}

// TestMCPServer 测试 MCP 服务器连通性
func (a *App) TestMCPServer(serverID string) *mcp.ServerStatus {
	return a.mcpManager.TestConnection(serverID)
}
