package tools

import (
	"fmt"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// VerifyPriceInput 多源价格核对输入参数
type VerifyPriceInput struct {
	Symbol string `json:"symbol" jsonschema:"NSE stock symbol, e.g. RELIANCE, TCS, INFY"`
}

// VerifyPriceOutput 多源价格核对输出
type VerifyPriceOutput struct {
	Data string `json:"data" jsonschema:"Cross-verified price report with per-source quotes and reliability"`
}

// createVerifyPriceTool 创建多源价格核对工具
func (r *Registry) createVerifyPriceTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input VerifyPriceInput) (VerifyPriceOutput, error) {
		log.Info("[Tool:verify_price] 调用开始, symbol=%s", input.Symbol)

		if input.Symbol == "" {
			return VerifyPriceOutput{Data: "Please provide a stock symbol."}, nil
		}

		report := r.marketService.VerifyPrice(ctx, input.Symbol)
		if report.Error != "" {
			log.Warn("[Tool:verify_price] 全部数据源失败: %s", input.Symbol)
			return VerifyPriceOutput{Data: report.Error}, nil
		}

		result := fmt.Sprintf("Price report for %s:\n", input.Symbol)
		result += fmt.Sprintf("Average Price: ₹%v (reliability: %s)\n", report.AveragePrice, report.Reliability)
		result += fmt.Sprintf("Market Status: %s\n", report.MarketStatus)
		for _, source := range report.SourceOrder {
			quote := report.Sources[source]
			if quote == nil {
				continue
			}
			result += fmt.Sprintf("- %s: ₹%.2f (as of %s)\n", source, quote.Price, quote.Timestamp)
		}
		if report.PriceRange != nil {
			result += fmt.Sprintf("Price Range: ₹%v - ₹%v\n", report.PriceRange.Min, report.PriceRange.Max)
		}

		log.Info("[Tool:verify_price] 调用完成, %d 个数据源", len(report.Sources))
		return VerifyPriceOutput{Data: result}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "verify_price",
		Description: "Get the cross-verified real-time price of an Indian stock from multiple market data sources, with a reliability grade",
	}, handler)
}
