// Package portfolio 投资组合的 JSON 文件存储与估值
package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"
	"github.com/run-bigpig/finwise/internal/pkg/paths"
)

var portfolioLog = logger.New("portfolio")

// PriceProvider 持仓估值用的现价来源
type PriceProvider interface {
	// CurrentPrice 返回现价，拿不到时返回 0
	CurrentPrice(ctx context.Context, symbol string) float64
}

// Manager 投资组合管理器，每个用户一个 JSON 文件
type Manager struct {
	dir    string
	prices PriceProvider
	mu     sync.Mutex
}

// NewManager 创建组合管理器
func NewManager(prices PriceProvider) *Manager {
	return &Manager{
		dir:    paths.EnsureDir(paths.GetPortfolioDir()),
		prices: prices,
	}
}

// NewManagerWithDir 指定存储目录的构造，便于测试
func NewManagerWithDir(dir string, prices PriceProvider) *Manager {
	return &Manager{dir: dir, prices: prices}
}

// portfolioFile 组合文件路径
func (m *Manager) portfolioFile(userID string) string {
	return filepath.Join(m.dir, userID+"_default.json")
}

// Create 创建新组合，已存在时返回提示
func (m *Manager) Create(userID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	file := m.portfolioFile(userID)
	if _, err := os.Stat(file); err == nil {
		return "Portfolio already exists!"
	}

	now := time.Now().Format(time.RFC3339)
	portfolio := &models.Portfolio{
		Stocks:      map[string]*models.Holding{},
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := m.save(file, portfolio); err != nil {
		portfolioLog.Error("create portfolio for %s failed: %v", userID, err)
		return fmt.Sprintf("Error creating portfolio: %v", err)
	}
	return "Portfolio created successfully!"
}

// AddStock 向组合添加持仓，已有持仓按加权平均摊薄成本
func (m *Manager) AddStock(ctx context.Context, userID, symbol string, quantity, buyPrice float64) string {
	if quantity <= 0 || buyPrice <= 0 {
		return "Quantity and price must be positive numbers"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	file := m.portfolioFile(userID)
	portfolio, err := m.load(file)
	if err != nil {
		return "Portfolio not found!"
	}

	currentPrice := m.currentPrice(ctx, symbol)
	now := time.Now().Format(time.RFC3339)

	if existing, ok := portfolio.Stocks[symbol]; ok {
		oldValue := existing.Quantity * existing.BuyPrice
		newValue := quantity * buyPrice
		total := existing.Quantity + quantity
		portfolio.Stocks[symbol] = &models.Holding{
			Quantity:     total,
			BuyPrice:     (oldValue + newValue) / total,
			CurrentPrice: currentPrice,
			LastUpdated:  now,
		}
	} else {
		portfolio.Stocks[symbol] = &models.Holding{
			Quantity:     quantity,
			BuyPrice:     buyPrice,
			CurrentPrice: currentPrice,
			LastUpdated:  now,
		}
	}
	portfolio.LastUpdated = now

	if err := m.save(file, portfolio); err != nil {
		portfolioLog.Error("save portfolio for %s failed: %v", userID, err)
		return fmt.Sprintf("Error adding stock: %v", err)
	}
	return fmt.Sprintf("Added %g shares of %s at ₹%g per share", quantity, symbol, buyPrice)
}

// Summary 组合估值摘要，组合不存在或为空时返回错误
func (m *Manager) Summary(ctx context.Context, userID string) (*models.PortfolioSummary, error) {
	m.mu.Lock()
	portfolio, err := m.load(m.portfolioFile(userID))
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("portfolio not found")
	}
	if len(portfolio.Stocks) == 0 {
		return nil, fmt.Errorf("portfolio is empty")
	}

	summary := &models.PortfolioSummary{}
	for _, symbol := range sortedSymbols(portfolio.Stocks) {
		holding := portfolio.Stocks[symbol]
		currentPrice := m.currentPrice(ctx, symbol)
		if currentPrice == 0 {
			currentPrice = holding.CurrentPrice
		}
		if currentPrice == 0 {
			currentPrice = holding.BuyPrice
		}

		investment := holding.Quantity * holding.BuyPrice
		currentValue := holding.Quantity * currentPrice
		profitLoss := currentValue - investment

		summary.Summary = append(summary.Summary, models.HoldingSummary{
			Symbol:            symbol,
			Quantity:          holding.Quantity,
			BuyPrice:          holding.BuyPrice,
			CurrentPrice:      currentPrice,
			Investment:        investment,
			CurrentValue:      currentValue,
			ProfitLoss:        profitLoss,
			ProfitLossPercent: profitLoss / investment * 100,
		})
		summary.TotalInvestment += investment
		summary.CurrentValue += currentValue
	}

	summary.TotalProfitLoss = summary.CurrentValue - summary.TotalInvestment
	summary.TotalProfitLossPercent = summary.TotalProfitLoss / summary.TotalInvestment * 100
	return summary, nil
}

// Metrics 组合风险指标：按持仓数量给出简单的分散度评分
func (m *Manager) Metrics(ctx context.Context, userID string) (*models.PortfolioMetrics, error) {
	summary, err := m.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := len(summary.Summary)
	risk := "Low"
	if count < 5 {
		risk = "High"
	} else if count < 10 {
		risk = "Medium"
	}

	action := "Portfolio is well diversified"
	if count < 5 {
		action = "Consider adding more stocks for better diversification"
	}

	return &models.PortfolioMetrics{
		DiversificationScore: count,
		RiskLevel:            risk,
		SuggestedActions:     []string{action},
	}, nil
}

func (m *Manager) currentPrice(ctx context.Context, symbol string) float64 {
	if m.prices == nil {
		return 0
	}
	return m.prices.CurrentPrice(ctx, symbol)
}

func (m *Manager) load(file string) (*models.Portfolio, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var portfolio models.Portfolio
	if err := json.Unmarshal(data, &portfolio); err != nil {
		return nil, err
	}
	if portfolio.Stocks == nil {
		portfolio.Stocks = map[string]*models.Holding{}
	}
	return &portfolio, nil
}

func (m *Manager) save(file string, portfolio *models.Portfolio) error {
	data, err := json.MarshalIndent(portfolio, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0644)
}

// sortedSymbols 固定摘要里的持仓顺序
func sortedSymbols(stocks map[string]*models.Holding) []string {
	symbols := make([]string, 0, len(stocks))
	for s := range stocks {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
