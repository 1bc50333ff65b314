package market

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"
	"github.com/run-bigpig/finwise/internal/pkg/paths"
)

var marketLog = logger.New("market")

// niftyIndex Nifty50 指数代码，用于市场情绪
const niftyIndex = "^NSEI"

// Service 多源价格核对服务
// 并发抓取所有源，聚合出平均价、方差与可靠度；结果带 TTL 文件缓存
type Service struct {
	fetchers []Fetcher
	history  *YahooFetcher
	cache    *FileCache
	now      func() time.Time
}

// NewService 创建行情服务，注册全部行情源
func NewService() (*Service, error) {
	// TTL 5分钟
	cache, err := NewFileCache(paths.EnsureCacheDir("market"), 5*time.Minute)
	if err != nil {
		return nil, err
	}

	return &Service{
		fetchers: []Fetcher{
			NewYahooFetcher(),
			NewNSEFetcher(),
			NewMoneyControlFetcher(),
		},
		history: NewYahooFetcher(),
		cache:   cache,
	}, nil
}

// NewServiceWith 以指定的源与缓存构建服务，便于组合
func NewServiceWith(fetchers []Fetcher, history *YahooFetcher, cache *FileCache) *Service {
	return &Service{fetchers: fetchers, history: history, cache: cache}
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// VerifyPrice 多源核对股票价格
// 任何源失败只记日志不中断；全部失败时返回带错误说明的报告而非 error
func (s *Service) VerifyPrice(ctx context.Context, symbol string) *models.PriceReport {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return s.emptyReport("Could not fetch data for empty symbol. Please verify the stock symbol.")
	}

	if s.cache != nil {
		var cached models.PriceReport
		if s.cache.Get("price_"+symbol, &cached) {
			return &cached
		}
	}

	type fetchResult struct {
		name  string
		quote *models.SourceQuote
	}

	results := make([]fetchResult, len(s.fetchers))
	var wg sync.WaitGroup
	for i, fetcher := range s.fetchers {
		wg.Add(1)
		go func(i int, f Fetcher) {
			defer wg.Done()
			quote, err := f.Fetch(ctx, symbol)
			if err != nil {
				marketLog.Debug("%s fetch %s failed: %v", f.Name(), symbol, err)
				return
			}
			results[i] = fetchResult{name: f.Name(), quote: quote}
		}(i, fetcher)
	}
	wg.Wait()

	sources := make(map[string]*models.SourceQuote)
	order := make([]string, 0, len(results))
	prices := make([]float64, 0, len(results))
	for _, r := range results {
		if r.quote == nil {
			continue
		}
		sources[r.name] = r.quote
		order = append(order, r.name)
		if r.quote.Price > 0 {
			prices = append(prices, r.quote.Price)
		}
	}

	if len(prices) == 0 {
		report := s.emptyReport(fmt.Sprintf("Could not fetch data for %s. Please verify the stock symbol.", symbol))
		report.Sources = sources
		report.SourceOrder = order
		return report
	}

	avg := mean(prices)
	variance := stdDev(prices)
	report := &models.PriceReport{
		Sources:      sources,
		SourceOrder:  order,
		AveragePrice: avg,
		Variance:     variance,
		Reliability:  reliability(variance),
		MarketStatus: MarketStatus(s.clock()),
		Timestamp:    s.clock().Format("2006-01-02 15:04:05"),
		PriceRange: &models.ReportRange{
			Min: minOf(prices),
			Max: maxOf(prices),
		},
	}

	if s.cache != nil {
		if err := s.cache.Set("price_"+symbol, report); err != nil {
			marketLog.Warn("cache price report for %s failed: %v", symbol, err)
		}
	}
	return report
}

// emptyReport 构造全 N/A 的失败报告
func (s *Service) emptyReport(errMsg string) *models.PriceReport {
	return &models.PriceReport{
		Error:        errMsg,
		Sources:      map[string]*models.SourceQuote{},
		AveragePrice: "N/A",
		Variance:     "N/A",
		Reliability:  "N/A",
		MarketStatus: "Unknown",
		Timestamp:    s.clock().Format("2006-01-02 15:04:05"),
		PriceRange:   &models.ReportRange{Min: "N/A", Max: "N/A"},
	}
}

// GetKLineData 获取历史 K 线，rangeStr 形如 1mo/6mo/1y
func (s *Service) GetKLineData(ctx context.Context, symbol, rangeStr string) ([]models.KLineData, error) {
	symbol = NormalizeSymbol(symbol)
	key := fmt.Sprintf("kline_%s_%s", symbol, rangeStr)

	if s.cache != nil {
		var cached []models.KLineData
		if s.cache.Get(key, &cached) {
			return cached, nil
		}
	}

	klines, err := s.history.History(ctx, symbol+".NS", rangeStr, "1d")
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(key, klines); err != nil {
			marketLog.Warn("cache klines for %s failed: %v", symbol, err)
		}
	}
	return klines, nil
}

// MarketMood 基于 Nifty50 日线给出市场情绪概览
func (s *Service) MarketMood(ctx context.Context) string {
	klines, err := s.history.History(ctx, niftyIndex, "5d", "1d")
	if err != nil || len(klines) < 2 {
		marketLog.Warn("nifty data unavailable: %v", err)
		return "Unable to determine market mood at the moment."
	}

	last := klines[len(klines)-1]
	prev := klines[len(klines)-2]
	changePercent := (last.Close - prev.Close) / prev.Close * 100

	var totalVolume int64
	for _, k := range klines {
		totalVolume += k.Volume
	}
	avgVolume := float64(totalVolume) / float64(len(klines))
	volumeTrend := "Low"
	if float64(last.Volume) > avgVolume {
		volumeTrend = "High"
	}

	mood := describeMood(changePercent)
	status := MarketStatus(s.clock())
	pressure := "selling"
	if changePercent > 0 {
		pressure = "buying"
	}

	var b strings.Builder
	b.WriteString("Market Mood Analysis:\n")
	b.WriteString(mood + "\n\n")
	b.WriteString("📊 Nifty50 Details:\n")
	fmt.Fprintf(&b, "Current Level: %.2f\n", last.Close)
	fmt.Fprintf(&b, "Change: %.2f%%\n", changePercent)
	fmt.Fprintf(&b, "Volume Trend: %s\n", volumeTrend)
	fmt.Fprintf(&b, "Market Status: %s\n\n", status)
	b.WriteString("💡 Key Insights:\n")
	fmt.Fprintf(&b, "• Volume is %s compared to average\n", strings.ToLower(volumeTrend))
	fmt.Fprintf(&b, "• Market is currently %s\n", strings.ToLower(status))
	fmt.Fprintf(&b, "• Trend indicates %s pressure\n\n", pressure)
	b.WriteString("Note: This is a technical overview. Please consider fundamental factors as well.")
	return b.String()
}

// describeMood 按涨跌幅映射情绪文案
func describeMood(changePercent float64) string {
	switch {
	case changePercent > 1.5:
		return "🚀 Market is strongly bullish! Showing significant upward momentum."
	case changePercent > 0.5:
		return "📈 Market is mildly bullish. Showing positive sentiment."
	case changePercent > -0.5:
		return "↔️ Market is neutral. Moving sideways with no clear direction."
	case changePercent > -1.5:
		return "📉 Market is mildly bearish. Showing some weakness."
	default:
		return "🔻 Market is strongly bearish! Showing significant downward pressure."
	}
}

// reliability 按多源方差给出可靠度评级
func reliability(variance float64) string {
	switch {
	case variance < 1:
		return "High"
	case variance < 5:
		return "Medium"
	default:
		return "Low"
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev 总体标准差，单样本时为 0
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// CurrentPrice 多源均价，用于持仓估值；全部失败返回 0
func (s *Service) CurrentPrice(ctx context.Context, symbol string) float64 {
	report := s.VerifyPrice(ctx, symbol)
	if price, ok := report.AveragePrice.(float64); ok {
		return price
	}
	return 0
}
