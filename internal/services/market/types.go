// Package market 多源行情抓取与价格核对
package market

import (
	"context"
	"strings"
	"time"

	"github.com/run-bigpig/finwise/internal/models"
)

// Fetcher 单个行情源的抓取接口
type Fetcher interface {
	// Fetch 抓取指定股票的实时行情
	Fetch(ctx context.Context, symbol string) (*models.SourceQuote, error)
	// Name 返回源标识，小写
	Name() string
}

// NormalizeSymbol 清洗股票代码：去空白、大写、去 .NS 后缀
func NormalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	symbol = strings.TrimSuffix(symbol, ".NS")
	return symbol
}

// ist 印度标准时区，缺少 tzdata 时退化为固定偏移
var ist = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}()

// MarketStatus 按印度市场交易时段判断开闭市（9:15-15:30 IST，周一至周五）
func MarketStatus(now time.Time) string {
	now = now.In(ist)
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "Closed"
	}

	minutes := now.Hour()*60 + now.Minute()
	open := 9*60 + 15
	close := 15*60 + 30
	if minutes >= open && minutes <= close {
		return "Open"
	}
	return "Closed"
}
