package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/run-bigpig/finwise/internal/models"
)

// stubFetcher 固定返回值的行情源
type stubFetcher struct {
	name  string
	quote *models.SourceQuote
	err   error
}

func (s *stubFetcher) Fetch(ctx context.Context, symbol string) (*models.SourceQuote, error) {
	return s.quote, s.err
}

func (s *stubFetcher) Name() string { return s.name }

// TestVerifyPriceAggregation 多源聚合出平均价、方差与区间
func TestVerifyPriceAggregation(t *testing.T) {
	svc := NewServiceWith([]Fetcher{
		&stubFetcher{name: "yahoo", quote: &models.SourceQuote{Price: 100, Volume: 1000}},
		&stubFetcher{name: "nse", quote: &models.SourceQuote{Price: 102, Volume: 2000}},
	}, nil, nil)

	report := svc.VerifyPrice(context.Background(), "reliance")

	if report.Error != "" {
		t.Fatalf("不应有错误: %s", report.Error)
	}
	if len(report.Sources) != 2 {
		t.Fatalf("源数量 = %d, 期望 2", len(report.Sources))
	}
	avg, ok := report.AveragePrice.(float64)
	if !ok || avg != 101 {
		t.Errorf("平均价 = %v, 期望 101", report.AveragePrice)
	}
	variance, _ := report.Variance.(float64)
	if variance != 1 {
		t.Errorf("方差 = %v, 期望 1", report.Variance)
	}
	// 方差 1 落在 [1,5) 区间
	if report.Reliability != "Medium" {
		t.Errorf("可靠度 = %s, 期望 Medium", report.Reliability)
	}
	if report.PriceRange.Min != 100.0 || report.PriceRange.Max != 102.0 {
		t.Errorf("价格区间 = %+v", report.PriceRange)
	}
	if len(report.SourceOrder) != 2 || report.SourceOrder[0] != "yahoo" || report.SourceOrder[1] != "nse" {
		t.Errorf("源顺序 = %v", report.SourceOrder)
	}
}

// TestVerifyPriceSingleSource 单源时方差为 0，可靠度为 High
func TestVerifyPriceSingleSource(t *testing.T) {
	svc := NewServiceWith([]Fetcher{
		&stubFetcher{name: "yahoo", quote: &models.SourceQuote{Price: 2945.3}},
		&stubFetcher{name: "nse", err: errors.New("timeout")},
	}, nil, nil)

	report := svc.VerifyPrice(context.Background(), "TCS")

	if report.Reliability != "High" {
		t.Errorf("可靠度 = %s, 期望 High", report.Reliability)
	}
	if v, _ := report.Variance.(float64); v != 0 {
		t.Errorf("方差 = %v, 期望 0", report.Variance)
	}
	if _, ok := report.Sources["nse"]; ok {
		t.Error("失败的源不应出现在报告中")
	}
}

// TestVerifyPriceAllFail 全部源失败返回 N/A 哨兵报告
func TestVerifyPriceAllFail(t *testing.T) {
	svc := NewServiceWith([]Fetcher{
		&stubFetcher{name: "yahoo", err: errors.New("down")},
		&stubFetcher{name: "nse", err: errors.New("down")},
	}, nil, nil)

	report := svc.VerifyPrice(context.Background(), "BADSYM")

	if report.Error == "" {
		t.Fatal("全部失败应带错误说明")
	}
	if !strings.Contains(report.Error, "BADSYM") {
		t.Errorf("错误说明应包含代码: %s", report.Error)
	}
	if report.AveragePrice != "N/A" || report.Reliability != "N/A" {
		t.Errorf("失败报告 = avg %v reliability %v, 期望 N/A", report.AveragePrice, report.Reliability)
	}
	if report.PriceRange.Min != "N/A" || report.PriceRange.Max != "N/A" {
		t.Errorf("价格区间 = %+v, 期望 N/A", report.PriceRange)
	}
	if report.MarketStatus != "Unknown" {
		t.Errorf("市场状态 = %s, 期望 Unknown", report.MarketStatus)
	}
}

// TestVerifyPriceZeroPriceSkipped 零价格的源不参与均值计算
func TestVerifyPriceZeroPriceSkipped(t *testing.T) {
	svc := NewServiceWith([]Fetcher{
		&stubFetcher{name: "yahoo", quote: &models.SourceQuote{Price: 0}},
		&stubFetcher{name: "nse", quote: &models.SourceQuote{Price: 50}},
	}, nil, nil)

	report := svc.VerifyPrice(context.Background(), "X")
	if avg, _ := report.AveragePrice.(float64); avg != 50 {
		t.Errorf("平均价 = %v, 期望 50", report.AveragePrice)
	}
}

// TestNormalizeSymbol 代码清洗
func TestNormalizeSymbol(t *testing.T) {
	cases := map[string]string{
		"  reliance ":  "RELIANCE",
		"TCS.NS":       "TCS",
		"m&m":          "M&M",
		"INFY":         "INFY",
	}
	for in, want := range cases {
		if got := NormalizeSymbol(in); got != want {
			t.Errorf("NormalizeSymbol(%q) = %q, 期望 %q", in, got, want)
		}
	}
}

// TestMarketStatus 印度交易时段判断
func TestMarketStatus(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"周三盘中", time.Date(2026, 8, 26, 11, 0, 0, 0, ist), "Open"},
		{"开盘前", time.Date(2026, 8, 26, 9, 0, 0, 0, ist), "Closed"},
		{"开盘瞬间", time.Date(2026, 8, 26, 9, 15, 0, 0, ist), "Open"},
		{"收盘瞬间", time.Date(2026, 8, 26, 15, 30, 0, 0, ist), "Open"},
		{"收盘后", time.Date(2026, 8, 26, 15, 31, 0, 0, ist), "Closed"},
		{"周六", time.Date(2026, 8, 29, 11, 0, 0, 0, ist), "Closed"},
		{"周日", time.Date(2026, 8, 30, 11, 0, 0, 0, ist), "Closed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MarketStatus(tc.at); got != tc.want {
				t.Errorf("MarketStatus(%s) = %s, 期望 %s", tc.at, got, tc.want)
			}
		})
	}
}

// TestReliabilityBuckets 可靠度分档
func TestReliabilityBuckets(t *testing.T) {
	if reliability(0.5) != "High" || reliability(3) != "Medium" || reliability(8) != "Low" {
		t.Error("可靠度分档不符合预期")
	}
}

// chartJSON 构造雅虎 chart 接口的响应
func chartJSON(closes []float64, volumes []int64) string {
	ts := make([]string, len(closes))
	cl := make([]string, len(closes))
	vo := make([]string, len(closes))
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC).Unix()
	for i := range closes {
		ts[i] = fmt.Sprintf("%d", base+int64(i)*86400)
		cl[i] = fmt.Sprintf("%g", closes[i])
		vo[i] = fmt.Sprintf("%d", volumes[i])
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"regularMarketPrice":%g},
		"timestamp":[%s],
		"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]}]}}],
		"error":null}}`,
		closes[len(closes)-1],
		strings.Join(ts, ","), strings.Join(cl, ","), strings.Join(cl, ","),
		strings.Join(cl, ","), strings.Join(cl, ","), strings.Join(vo, ","))
}

// newChartServer 模拟雅虎 chart 接口
func newChartServer(t *testing.T, closes []float64, volumes []int64) *YahooFetcher {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartJSON(closes, volumes))
	}))
	t.Cleanup(server.Close)
	return &YahooFetcher{client: server.Client(), baseURL: server.URL}
}

// TestYahooHistory 历史 K 线解析
func TestYahooHistory(t *testing.T) {
	fetcher := newChartServer(t, []float64{100, 101, 102}, []int64{10, 20, 30})

	klines, err := fetcher.History(context.Background(), "RELIANCE.NS", "5d", "1d")
	if err != nil {
		t.Fatalf("History 失败: %v", err)
	}
	if len(klines) != 3 {
		t.Fatalf("K线数量 = %d, 期望 3", len(klines))
	}
	if klines[2].Close != 102 || klines[2].Volume != 30 {
		t.Errorf("末根K线 = %+v", klines[2])
	}
}

// TestMarketMoodBullish 涨幅超过 1.5% 时给出强烈看多文案
func TestMarketMoodBullish(t *testing.T) {
	history := newChartServer(t, []float64{100, 103}, []int64{100, 200})
	svc := NewServiceWith(nil, history, nil)

	mood := svc.MarketMood(context.Background())
	if !strings.Contains(mood, "strongly bullish") {
		t.Errorf("情绪文案 = %q", mood)
	}
	if !strings.Contains(mood, "Volume Trend: High") {
		t.Errorf("量能趋势缺失: %q", mood)
	}
	if !strings.Contains(mood, "buying pressure") {
		t.Errorf("买压提示缺失: %q", mood)
	}
}

// TestMarketMoodUnavailable 数据不足时返回降级文案
func TestMarketMoodUnavailable(t *testing.T) {
	history := newChartServer(t, []float64{100}, []int64{100})
	svc := NewServiceWith(nil, history, nil)

	mood := svc.MarketMood(context.Background())
	if mood != "Unable to determine market mood at the moment." {
		t.Errorf("降级文案 = %q", mood)
	}
}

// TestFileCache 缓存写读与过期
func TestFileCache(t *testing.T) {
	cache, err := NewFileCache(t.TempDir(), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("创建缓存失败: %v", err)
	}

	report := &models.PriceReport{Reliability: "High", AveragePrice: 101.5}
	if err := cache.Set("price_TCS", report); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}

	var got models.PriceReport
	if !cache.Get("price_TCS", &got) {
		t.Fatal("缓存应命中")
	}
	if got.Reliability != "High" {
		t.Errorf("缓存数据 = %+v", got)
	}

	time.Sleep(150 * time.Millisecond)
	if cache.Get("price_TCS", &got) {
		t.Error("过期后不应命中")
	}

	if cache.Get("missing", &got) {
		t.Error("不存在的键不应命中")
	}
}
