// Package bot FinWise 命令分发核心：解析用户输入并调用对应服务
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"
	"github.com/run-bigpig/finwise/internal/render"
)

var botLog = logger.New("bot")

// defaultUserID 单机模式下的固定用户
const defaultUserID = "default"

// MarketService 行情能力边界
type MarketService interface {
	VerifyPrice(ctx context.Context, symbol string) *models.PriceReport
	MarketMood(ctx context.Context) string
}

// AnalyzerService 技术分析能力边界
type AnalyzerService interface {
	Analyze(ctx context.Context, symbol string) (*models.TechnicalReport, error)
}

// PortfolioManager 组合管理能力边界
type PortfolioManager interface {
	Create(userID string) string
	AddStock(ctx context.Context, userID, symbol string, quantity, buyPrice float64) string
	Summary(ctx context.Context, userID string) (*models.PortfolioSummary, error)
	Metrics(ctx context.Context, userID string) (*models.PortfolioMetrics, error)
}

// Advisor AI 顾问能力边界，按当前模式生成回复
type Advisor interface {
	Advise(ctx context.Context, query string, mode models.Mode) (string, error)
}

// Bot 命令分发器
// 特殊命令（价格、分析、组合、计算器等）直接走本地服务，
// 其余输入交给 AI 顾问，顾问不可用时给出降级回复
type Bot struct {
	market    MarketService
	analyzer  AnalyzerService
	portfolio PortfolioManager
	advisor   Advisor

	mu   sync.RWMutex
	mode models.Mode
}

// New 创建命令分发器，advisor 可为 nil（纯本地模式）
func New(market MarketService, analyzer AnalyzerService, portfolio PortfolioManager, advisor Advisor) *Bot {
	return &Bot{
		market:    market,
		analyzer:  analyzer,
		portfolio: portfolio,
		advisor:   advisor,
		mode:      models.ModeAdvisor,
	}
}

// Mode 当前交互模式
func (b *Bot) Mode() models.Mode {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mode
}

// ChangeMode 切换交互模式，返回确认文案
func (b *Bot) ChangeMode(ctx context.Context, mode string) (string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if !models.ValidMode(mode) {
		return "", fmt.Errorf("unknown mode: %s", mode)
	}

	b.mu.Lock()
	b.mode = models.Mode(mode)
	b.mu.Unlock()
	return fmt.Sprintf("Switched to %s", models.ModeLabels[models.Mode(mode)]), nil
}

// Process 处理一条用户命令
// 返回值是字符串或保序对象，交由渲染层决定展示形态
func (b *Bot) Process(ctx context.Context, input string) (any, error) {
	input = strings.TrimSpace(input)
	lower := strings.ToLower(input)
	parts := strings.Fields(input)

	switch {
	case lower == "help":
		return b.Help(), nil

	case strings.HasPrefix(lower, "mode "):
		return b.ChangeMode(ctx, strings.Fields(lower)[1])

	case strings.HasPrefix(lower, "create portfolio"):
		return b.portfolio.Create(defaultUserID), nil

	case strings.HasPrefix(lower, "add stock"):
		return b.addStock(ctx, parts), nil

	case strings.HasPrefix(lower, "show portfolio"):
		return b.showPortfolio(ctx), nil

	case strings.Contains(lower, "market mood") || strings.Contains(lower, "market status"):
		return b.market.MarketMood(ctx), nil

	case strings.HasPrefix(lower, "calculate sip"):
		return b.calculateSIP(input), nil

	case strings.HasPrefix(lower, "calculate emi"):
		return b.calculateEMI(input), nil

	case strings.HasPrefix(lower, "calculate lumpsum"):
		return b.calculateLumpsum(input), nil

	case strings.HasPrefix(lower, "learn ") && len(parts) >= 2:
		return LearningContent(strings.ToLower(parts[1])), nil

	case strings.HasPrefix(lower, "price ") && len(parts) >= 2:
		return b.priceObject(ctx, parts[len(parts)-1]), nil

	case strings.HasPrefix(lower, "analysis ") && len(parts) >= 2:
		return b.analysisObject(ctx, parts[len(parts)-1]), nil
	}

	return b.advise(ctx, input), nil
}

// Help 帮助文本
func (b *Bot) Help() string {
	return `🤖 FinWise Bot Commands:

1. Price Commands:
   - 'price SYMBOL' - Get real-time price
   - 'analysis SYMBOL' - Get technical analysis

2. Portfolio Commands:
   - 'create portfolio' - Create new portfolio
   - 'add stock SYMBOL QUANTITY PRICE' - Add stock
   - 'show portfolio' - View portfolio

3. Calculator Commands:
   - 'calculate sip AMOUNT YEARS RETURN' - SIP calculator
   - 'calculate emi AMOUNT RATE YEARS' - EMI calculator
   - 'calculate lumpsum AMOUNT YEARS RETURN' - Lumpsum calculator

4. Mode Commands:
   - 'mode advisor' - Switch to advisor mode
   - 'mode analysis' - Switch to analysis mode
   - 'mode portfolio' - Switch to portfolio mode
   - 'mode learning' - Switch to learning mode

5. Learning Commands:
   - 'learn stocks' - Learn about stocks
   - 'learn mutual_funds' - Learn about mutual funds
   - 'learn technical' - Learn technical analysis

6. Market Commands:
   - 'market mood' - Get market sentiment`
}

// advise AI 顾问回复，失败时降级为本地能力提示
func (b *Bot) advise(ctx context.Context, query string) any {
	if b.advisor != nil {
		response, err := b.advisor.Advise(ctx, query, b.Mode())
		if err == nil && response != "" {
			return response
		}
		if err != nil {
			botLog.Warn("advisor failed: %v", err)
		}
	}
	return b.fallbackResponse(ctx, query)
}

// fallbackResponse 顾问不可用时的降级路径：能识别的查询走本地服务
func (b *Bot) fallbackResponse(ctx context.Context, query string) any {
	lower := strings.ToLower(query)
	parts := strings.Fields(query)

	if strings.Contains(lower, "price") && len(parts) >= 2 {
		return b.priceObject(ctx, parts[len(parts)-1])
	}
	if strings.Contains(lower, "analysis") && len(parts) >= 2 {
		return b.analysisObject(ctx, parts[len(parts)-1])
	}

	return `We apologize for the inconvenience. Our AI response system is currently unavailable.

Alternative Options:
1. Use Direct Market Commands:
   • price [SYMBOL] - Get current stock prices
   • analysis [SYMBOL] - View technical analysis
   • market mood - Check market sentiment

2. Access Basic Functions:
   • View your portfolio: 'show portfolio'
   • Calculate investments: 'calculate sip'
   • Learn about topics: 'learn stocks'

Please try your request again in a few moments.`
}

// addStock 解析 add stock SYMBOL QUANTITY PRICE
func (b *Bot) addStock(ctx context.Context, parts []string) string {
	if len(parts) < 5 {
		return "Please use format: add stock SYMBOL QUANTITY PRICE"
	}
	symbol := strings.ToUpper(parts[2])
	quantity, err1 := strconv.ParseFloat(parts[3], 64)
	price, err2 := strconv.ParseFloat(parts[4], 64)
	if err1 != nil || err2 != nil {
		return "Please use format: add stock SYMBOL QUANTITY PRICE"
	}
	return b.portfolio.AddStock(ctx, defaultUserID, symbol, quantity, price)
}

// showPortfolio 组合摘要 + 风险指标的文本报告
func (b *Bot) showPortfolio(ctx context.Context) string {
	summary, err := b.portfolio.Summary(ctx, defaultUserID)
	if err != nil {
		return "Portfolio not found! Use 'create portfolio' to get started."
	}

	var sb strings.Builder
	sb.WriteString("📊 Your Portfolio Summary:\n")
	for _, stock := range summary.Summary {
		fmt.Fprintf(&sb, `
%s:
Quantity: %g
Current Value: ₹%.2f
Profit/Loss: ₹%.2f (%.2f%%)
------------------------`,
			stock.Symbol, stock.Quantity, stock.CurrentValue, stock.ProfitLoss, stock.ProfitLossPercent)
	}

	fmt.Fprintf(&sb, `

📈 Overall Portfolio:
Total Investment: ₹%.2f
Current Value: ₹%.2f
Total Profit/Loss: ₹%.2f (%.2f%%)`,
		summary.TotalInvestment, summary.CurrentValue,
		summary.TotalProfitLoss, summary.TotalProfitLossPercent)

	if metrics, err := b.portfolio.Metrics(ctx, defaultUserID); err == nil {
		fmt.Fprintf(&sb, `

📊 Portfolio Metrics:
Diversification Score: %d
Risk Level: %s
Suggested Actions: %s`,
			metrics.DiversificationScore, metrics.RiskLevel,
			strings.Join(metrics.SuggestedActions, ", "))
	}
	return sb.String()
}

// calculateSIP 解析并计算 SIP
func (b *Bot) calculateSIP(input string) string {
	numbers := extractNumbers(input)
	if len(numbers) < 3 {
		return "Please use format: calculate sip AMOUNT YEARS RETURN"
	}
	result, err := CalculateSIP(numbers[0], numbers[1], numbers[2])
	if err != nil {
		return "Error in SIP calculation: " + err.Error()
	}
	return fmt.Sprintf(`💰 SIP Calculator Results:
Monthly Investment: ₹%.2f
Time Period: %g years
Expected Return: %g%%

Future Value: ₹%.2f
Total Investment: ₹%.2f
Expected Returns: ₹%.2f
XIRR: %.2f%%

%s`, numbers[0], numbers[1], numbers[2],
		result.FutureValue, result.TotalInvestment, result.Returns, result.XIRR,
		randomQuote())
}

// calculateEMI 解析并计算 EMI
func (b *Bot) calculateEMI(input string) string {
	numbers := extractNumbers(input)
	if len(numbers) < 3 {
		return "Please use format: calculate emi AMOUNT RATE YEARS"
	}
	result, err := CalculateEMI(numbers[0], numbers[1], numbers[2])
	if err != nil {
		return "Error in EMI calculation: " + err.Error()
	}
	return fmt.Sprintf(`💳 EMI Calculator Results:
Loan Amount: ₹%.2f
Interest Rate: %g%%
Loan Term: %g years

Monthly EMI: ₹%.2f
Total Payment: ₹%.2f
Total Interest: ₹%.2f

%s`, numbers[0], numbers[1], numbers[2],
		result.EMI, result.TotalPayment, result.TotalInterest,
		randomQuote())
}

// calculateLumpsum 解析并计算一次性投资
func (b *Bot) calculateLumpsum(input string) string {
	numbers := extractNumbers(input)
	if len(numbers) < 3 {
		return "Please use format: calculate lumpsum AMOUNT YEARS RETURN"
	}
	result := CalculateLumpsum(numbers[0], numbers[1], numbers[2])
	return fmt.Sprintf(`💰 Lumpsum Calculator Results:
Investment: ₹%.2f
Time Period: %g years
Expected Return: %g%%

Future Value: ₹%.2f
Expected Returns: ₹%.2f

%s`, numbers[0], numbers[1], numbers[2],
		result.FutureValue, result.Returns,
		randomQuote())
}

// priceObject 价格报告 → 保序响应对象
func (b *Bot) priceObject(ctx context.Context, symbol string) *render.Object {
	report := b.market.VerifyPrice(ctx, strings.ToUpper(symbol))

	obj := render.NewObject()
	if report.Error != "" {
		obj.Set("error", report.Error)
	}

	sources := render.NewObject()
	for _, name := range report.SourceOrder {
		quote := report.Sources[name]
		if quote == nil {
			continue
		}
		fields := render.NewObject()
		fields.Set("price", quote.Price)
		if quote.Open > 0 {
			fields.Set("open", quote.Open)
		}
		if quote.High > 0 {
			fields.Set("high", quote.High)
		}
		if quote.Low > 0 {
			fields.Set("low", quote.Low)
		}
		if quote.Volume > 0 {
			fields.Set("volume", quote.Volume)
		}
		fields.Set("timestamp", quote.Timestamp)
		sources.Set(name, fields)
	}
	obj.Set("sources", sources)
	obj.Set("average_price", report.AveragePrice)
	obj.Set("variance", report.Variance)
	obj.Set("reliability", report.Reliability)
	obj.Set("market_status", report.MarketStatus)
	obj.Set("timestamp", report.Timestamp)

	priceRange := render.NewObject()
	if report.PriceRange != nil {
		priceRange.Set("min", report.PriceRange.Min)
		priceRange.Set("max", report.PriceRange.Max)
	}
	obj.Set("price_range", priceRange)
	return obj
}

// analysisObject 技术分析报告 → 保序响应对象
func (b *Bot) analysisObject(ctx context.Context, symbol string) *render.Object {
	symbol = strings.ToUpper(symbol)
	report, err := b.analyzer.Analyze(ctx, symbol)
	if err != nil {
		botLog.Warn("analysis for %s failed: %v", symbol, err)
		return render.NewObject().Set("error", fmt.Sprintf("Error in technical analysis: %v", err))
	}

	signals := render.NewObject()
	for _, name := range report.SignalOrder {
		signals.Set(name, report.Signals[name])
	}

	indicators := render.NewObject()
	for _, name := range indicatorOrder {
		if v, ok := report.Indicators[name]; ok {
			indicators.Set(name, v)
		}
	}

	obj := render.NewObject()
	obj.Set("signals", signals)
	obj.Set("current_price", report.CurrentPrice)
	obj.Set("chart_path", report.ChartPath)
	obj.Set("indicators", indicators)
	obj.Set("last_updated", report.LastUpdated)
	return obj
}

// indicatorOrder 指标的固定展示顺序
var indicatorOrder = []string{"rsi", "macd", "signal", "bollinger_upper", "bollinger_lower", "volume", "volume_ma"}

// extractNumbers 提取输入中的全部数字参数
func extractNumbers(input string) []float64 {
	var numbers []float64
	for _, field := range strings.Fields(input) {
		if n, err := strconv.ParseFloat(field, 64); err == nil {
			numbers = append(numbers, n)
		}
	}
	return numbers
}
