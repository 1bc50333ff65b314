package models

import "time"

// Sender 消息发送方
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatEntry 会话日志条目，创建后不可变
type ChatEntry struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Fragment  Fragment  `json:"fragment"`  // 结构化渲染内容
	Timestamp time.Time `json:"timestamp"` // 创建时间
}

// SavedResponse 用户收藏的回复
type SavedResponse struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"` // ISO-8601
}

// Mode 助手交互模式
type Mode string

const (
	ModeAdvisor   Mode = "advisor"
	ModeAnalysis  Mode = "analysis"
	ModePortfolio Mode = "portfolio"
	ModeLearning  Mode = "learning"
)

// ModeLabels 各模式的展示名称
var ModeLabels = map[Mode]string{
	ModeAdvisor:   "🤝 Financial Advisor Mode",
	ModeAnalysis:  "📊 Market Analysis Mode",
	ModePortfolio: "💼 Portfolio Management Mode",
	ModeLearning:  "📚 Learning Mode",
}

// ValidMode 判断模式是否合法
func ValidMode(m string) bool {
	_, ok := ModeLabels[Mode(m)]
	return ok
}

// CommandDescriptions 支持的命令及说明，用于帮助弹窗
var CommandDescriptions = map[string]string{
	"price":       "Get real-time stock price",
	"analysis":    "Get technical analysis",
	"sentiment":   "Get market sentiment",
	"portfolio":   "View/manage portfolio",
	"calculate":   "Financial calculations",
	"learn":       "Learn about topics",
	"help":        "Show available commands",
	"mode":        "Change interaction mode",
	"preferences": "Set user preferences",
}
