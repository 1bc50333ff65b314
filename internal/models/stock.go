package models

// SourceQuote 单个数据源抓取到的行情
type SourceQuote struct {
	Price     float64 `json:"price"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    int64   `json:"volume"`
	Timestamp string  `json:"timestamp"`
}

// PriceReport 多源核对后的价格报告
// 所有源都失败时 AveragePrice 等字段为 "N/A" 哨兵值
type PriceReport struct {
	Error        string                  `json:"error,omitempty"`
	Sources      map[string]*SourceQuote `json:"sources"`
	SourceOrder  []string                `json:"-"`             // 序列化时的源顺序
	AveragePrice any                     `json:"average_price"` // float64 或 "N/A"
	Variance     any                     `json:"variance"`
	Reliability  string                  `json:"reliability"`
	MarketStatus string                  `json:"market_status"`
	Timestamp    string                  `json:"timestamp"`
	PriceRange   *ReportRange            `json:"price_range"`
}

// ReportRange 各源价格的最小/最大区间
type ReportRange struct {
	Min any `json:"min"` // float64 或 "N/A"
	Max any `json:"max"`
}

// KLineData K线数据
type KLineData struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// TechnicalReport 技术分析报告
type TechnicalReport struct {
	Signals      map[string]string  `json:"signals"`
	SignalOrder  []string           `json:"-"`
	Indicators   map[string]float64 `json:"indicators"`
	CurrentPrice float64            `json:"current_price"`
	ChartPath    string             `json:"chart_path"`
	LastUpdated  string             `json:"last_updated"`
}

// Holding 持仓记录
type Holding struct {
	Quantity     float64 `json:"quantity"`
	BuyPrice     float64 `json:"buy_price"`
	CurrentPrice float64 `json:"current_price"`
	LastUpdated  string  `json:"last_updated"`
}

// Portfolio 投资组合，按 JSON 文件持久化
type Portfolio struct {
	Stocks      map[string]*Holding `json:"stocks"`
	CreatedAt   string              `json:"created_at"`
	LastUpdated string              `json:"last_updated"`
}

// HoldingSummary 单只持仓的估值摘要
type HoldingSummary struct {
	Symbol            string  `json:"symbol"`
	Quantity          float64 `json:"quantity"`
	BuyPrice          float64 `json:"buy_price"`
	CurrentPrice      float64 `json:"current_price"`
	Investment        float64 `json:"investment"`
	CurrentValue      float64 `json:"current_value"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}

// PortfolioSummary 组合整体估值摘要
type PortfolioSummary struct {
	Summary                []HoldingSummary `json:"summary"`
	TotalInvestment        float64          `json:"total_investment"`
	CurrentValue           float64          `json:"current_value"`
	TotalProfitLoss        float64          `json:"total_profit_loss"`
	TotalProfitLossPercent float64          `json:"total_profit_loss_percent"`
}

// PortfolioMetrics 组合风险指标
type PortfolioMetrics struct {
	DiversificationScore int      `json:"diversification_score"`
	RiskLevel            string   `json:"risk_level"`
	SuggestedActions     []string `json:"suggested_actions"`
}

// StockSymbol 内置股票代码表中的一条记录
type StockSymbol struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}
