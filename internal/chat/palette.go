package chat

// 快捷命令表：别名 → 完整命令文本
// 静态表，未知别名解析为空串，调用方视为无操作
var quickCommands = map[string]string{
	"price":     "price RELIANCE",
	"analysis":  "analysis TCS",
	"portfolio": "show portfolio",
	"add":       "add stock RELIANCE 10 1000",
	"calculate": "calculate sip 5000 10 12",
	"learn":     "learn stocks",
	"market":    "market mood",
	"news":      "latest market news",
	"watchlist": "show watchlist",
}

// 快捷命令说明，用于点击后的提示气泡
var quickDescriptions = map[string]string{
	"price":     "Get real-time stock price",
	"analysis":  "Technical analysis of a stock",
	"portfolio": "View your portfolio summary",
	"add":       "Add a stock to your portfolio",
	"calculate": "Financial calculator",
	"learn":     "Access learning resources",
	"market":    "Check market sentiment",
	"news":      "Get latest market news",
	"watchlist": "View your watchlist",
}

// ResolveQuickCommand 解析快捷命令别名，未知别名返回空串
func ResolveQuickCommand(alias string) string {
	return quickCommands[alias]
}

// QuickCommandDescription 快捷命令的说明文案
func QuickCommandDescription(alias string) string {
	if desc, ok := quickDescriptions[alias]; ok {
		return desc
	}
	return "Command selected"
}
