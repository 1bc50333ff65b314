package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"
	"github.com/run-bigpig/finwise/internal/pkg/paths"
)

var analyzerLog = logger.New("analyzer")

// SignalOrder 分析信号的固定展示顺序
var SignalOrder = []string{"trend", "rsi", "macd", "volume"}

// IndicatorOrder 关键指标的固定展示顺序
var IndicatorOrder = []string{"rsi", "macd", "signal", "bollinger_upper", "bollinger_lower", "volume", "volume_ma"}

// KLineProvider 历史行情来源
type KLineProvider interface {
	GetKLineData(ctx context.Context, symbol, rangeStr string) ([]models.KLineData, error)
}

// Service 技术分析服务
type Service struct {
	klines      KLineProvider
	analysisDir string
}

// NewService 创建技术分析服务
func NewService(klines KLineProvider) *Service {
	return &Service{
		klines:      klines,
		analysisDir: paths.EnsureDir(paths.GetAnalysisDir()),
	}
}

// NewServiceWithDir 指定产物目录的构造，便于测试
func NewServiceWithDir(klines KLineProvider, dir string) *Service {
	return &Service{klines: klines, analysisDir: dir}
}

// Analyze 对单只股票做技术分析：SMA20/50、RSI14、MACD、布林带与量能
// 历史数据不足以计算指标时返回错误
func (s *Service) Analyze(ctx context.Context, symbol string) (*models.TechnicalReport, error) {
	klines, err := s.klines.GetKLineData(ctx, symbol, "1y")
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	if len(klines) < 50 {
		return nil, fmt.Errorf("not enough history for %s: %d bars", symbol, len(klines))
	}

	closes := make([]float64, len(klines))
	volumes := make([]float64, len(klines))
	for i, k := range klines {
		closes[i] = k.Close
		volumes[i] = float64(k.Volume)
	}

	sma20 := Last(SMA(closes, 20))
	sma50 := Last(SMA(closes, 50))
	rsi := Last(RSI(closes, 14))
	macdLine, signalLine, _ := MACD(closes)
	macd := Last(macdLine)
	signal := Last(signalLine)
	upper, _, lower := Bollinger(closes, 20, 2)
	volumeMA := Last(SMA(volumes, 20))
	currentVolume := volumes[len(volumes)-1]

	signals := map[string]string{
		"trend":  pick(sma20 > sma50, "Bullish", "Bearish"),
		"rsi":    rsiSignal(rsi),
		"macd":   pick(macd > signal, "Buy", "Sell"),
		"volume": pick(currentVolume > volumeMA, "High", "Low"),
	}

	chartPath, err := WriteChart(s.analysisDir, symbol, klines, signals, SignalOrder)
	if err != nil {
		// 图表失败不阻断分析结果
		analyzerLog.Warn("write chart for %s failed: %v", symbol, err)
		chartPath = ""
	}

	return &models.TechnicalReport{
		Signals:     signals,
		SignalOrder: SignalOrder,
		Indicators: map[string]float64{
			"rsi":             rsi,
			"macd":            macd,
			"signal":          signal,
			"bollinger_upper": Last(upper),
			"bollinger_lower": Last(lower),
			"volume":          currentVolume,
			"volume_ma":       volumeMA,
		},
		CurrentPrice: closes[len(closes)-1],
		ChartPath:    chartPath,
		LastUpdated:  time.Now().Format("2006-01-02 15:04:05"),
	}, nil
}

// rsiSignal RSI 超买超卖分档
func rsiSignal(rsi float64) string {
	switch {
	case rsi > 70:
		return "Overbought"
	case rsi < 30:
		return "Oversold"
	default:
		return "Neutral"
	}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
