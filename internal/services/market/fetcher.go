package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/run-bigpig/finwise/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// newHTTPClient 各 fetcher 共用的客户端配置
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// YahooFetcher 雅虎财经行情源，走 chart 接口
type YahooFetcher struct {
	client  *http.Client
	baseURL string
}

// NewYahooFetcher 创建雅虎行情源
func NewYahooFetcher() *YahooFetcher {
	return &YahooFetcher{
		client:  newHTTPClient(),
		baseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChartResponse 雅虎 chart 接口的响应结构
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch 抓取当日行情
func (f *YahooFetcher) Fetch(ctx context.Context, symbol string) (*models.SourceQuote, error) {
	data, err := f.chart(ctx, symbol+".NS", "1d", "1d")
	if err != nil {
		return nil, err
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]
	last := len(quote.Close) - 1
	if last < 0 {
		return nil, fmt.Errorf("yahoo: empty series for %s", symbol)
	}

	price := quote.Close[last]
	if price == 0 {
		price = result.Meta.RegularMarketPrice
	}
	return &models.SourceQuote{
		Price:     price,
		Open:      quote.Open[last],
		High:      quote.High[last],
		Low:       quote.Low[last],
		Volume:    quote.Volume[last],
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	}, nil
}

// History 抓取历史 K 线，rangeStr 形如 1d/5d/1mo/1y
func (f *YahooFetcher) History(ctx context.Context, symbol, rangeStr, interval string) ([]models.KLineData, error) {
	data, err := f.chart(ctx, symbol, rangeStr, interval)
	if err != nil {
		return nil, err
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	klines := make([]models.KLineData, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == 0 {
			continue
		}
		klines = append(klines, models.KLineData{
			Time:   time.Unix(ts, 0).In(ist).Format("2006-01-02"),
			Open:   quote.Open[i],
			High:   quote.High[i],
			Low:    quote.Low[i],
			Close:  quote.Close[i],
			Volume: quote.Volume[i],
		})
	}
	if len(klines) == 0 {
		return nil, fmt.Errorf("yahoo: empty series for %s", symbol)
	}
	return klines, nil
}

// chart 调用 chart 接口
func (f *YahooFetcher) chart(ctx context.Context, symbol, rangeStr, interval string) (*yahooChartResponse, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s", f.baseURL, symbol, rangeStr, interval)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d for %s", resp.StatusCode, symbol)
	}

	var data yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no result for %s", symbol)
	}
	return &data, nil
}

// NSEFetcher 印度国家证券交易所官方接口
// 接口要求先访问首页获取 cookie 再查询
type NSEFetcher struct {
	client  *http.Client
	baseURL string
}

// NewNSEFetcher 创建 NSE 行情源
func NewNSEFetcher() *NSEFetcher {
	client := newHTTPClient()
	client.Jar, _ = cookiejar.New(nil)
	return &NSEFetcher{
		client:  client,
		baseURL: "https://www.nseindia.com",
	}
}

func (f *NSEFetcher) Name() string { return "nse" }

// nseQuoteResponse NSE quote-equity 接口的响应结构
type nseQuoteResponse struct {
	PriceInfo struct {
		LastPrice       float64 `json:"lastPrice"`
		Open            float64 `json:"open"`
		IntraDayHighLow struct {
			Max float64 `json:"max"`
			Min float64 `json:"min"`
		} `json:"intraDayHighLow"`
	} `json:"priceInfo"`
	PreOpenMarket struct {
		TotalTradedVolume int64 `json:"totalTradedVolume"`
	} `json:"preOpenMarket"`
	Metadata struct {
		LastUpdateTime string `json:"lastUpdateTime"`
	} `json:"metadata"`
}

// Fetch 抓取行情，先预热 cookie
func (f *NSEFetcher) Fetch(ctx context.Context, symbol string) (*models.SourceQuote, error) {
	if err := f.warmup(ctx); err != nil {
		return nil, err
	}

	// & 在查询串中需要转义
	escaped := strings.ReplaceAll(symbol, "&", "%26")
	url := fmt.Sprintf("%s/api/quote-equity?symbol=%s", f.baseURL, escaped)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nse: status %d for %s", resp.StatusCode, symbol)
	}

	var data nseQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.PriceInfo.LastPrice == 0 {
		return nil, fmt.Errorf("nse: no price for %s", symbol)
	}

	return &models.SourceQuote{
		Price:     data.PriceInfo.LastPrice,
		Open:      data.PriceInfo.Open,
		High:      data.PriceInfo.IntraDayHighLow.Max,
		Low:       data.PriceInfo.IntraDayHighLow.Min,
		Volume:    data.PreOpenMarket.TotalTradedVolume,
		Timestamp: data.Metadata.LastUpdateTime,
	}, nil
}

// warmup 访问首页获取会话 cookie
func (f *NSEFetcher) warmup(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL, nil)
	if err != nil {
		return err
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (f *NSEFetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
}

// MoneyControlFetcher MoneyControl 网页抓取源，只提供最新价
type MoneyControlFetcher struct {
	client  *http.Client
	baseURL string
}

// NewMoneyControlFetcher 创建 MoneyControl 行情源
func NewMoneyControlFetcher() *MoneyControlFetcher {
	return &MoneyControlFetcher{
		client:  newHTTPClient(),
		baseURL: "https://www.moneycontrol.com",
	}
}

func (f *MoneyControlFetcher) Name() string { return "moneycontrol" }

// Fetch 解析报价页面上的价格节点
func (f *MoneyControlFetcher) Fetch(ctx context.Context, symbol string) (*models.SourceQuote, error) {
	url := fmt.Sprintf("%s/india/stockpricequote/%s", f.baseURL, strings.ToLower(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moneycontrol: status %d for %s", resp.StatusCode, symbol)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(doc.Find("div.inprice1").First().Text())
	if text == "" {
		return nil, fmt.Errorf("moneycontrol: price node not found for %s", symbol)
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("moneycontrol: parse price %q: %w", text, err)
	}

	return &models.SourceQuote{
		Price:     price,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	}, nil
}
