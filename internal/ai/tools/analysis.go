package tools

import (
	"fmt"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// TechnicalAnalysisInput 技术分析输入参数
type TechnicalAnalysisInput struct {
	Symbol string `json:"symbol" jsonschema:"NSE stock symbol, e.g. RELIANCE, TCS, INFY"`
}

// TechnicalAnalysisOutput 技术分析输出
type TechnicalAnalysisOutput struct {
	Data string `json:"data" jsonschema:"Technical analysis summary with indicator values and signals"`
}

// createTechnicalAnalysisTool 创建技术分析工具
func (r *Registry) createTechnicalAnalysisTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input TechnicalAnalysisInput) (TechnicalAnalysisOutput, error) {
		log.Info("[Tool:get_technical_analysis] 调用开始, symbol=%s", input.Symbol)

		if input.Symbol == "" {
			return TechnicalAnalysisOutput{Data: "Please provide a stock symbol."}, nil
		}

		report, err := r.analyzerService.Analyze(ctx, input.Symbol)
		if err != nil {
			log.Warn("[Tool:get_technical_analysis] 分析失败: %v", err)
			return TechnicalAnalysisOutput{Data: fmt.Sprintf("Technical analysis for %s is unavailable: %v", input.Symbol, err)}, nil
		}

		result := fmt.Sprintf("Technical analysis for %s (price ₹%.2f, as of %s):\n",
			input.Symbol, report.CurrentPrice, report.LastUpdated)
		result += "Signals:\n"
		for _, name := range report.SignalOrder {
			result += fmt.Sprintf("- %s: %s\n", name, report.Signals[name])
		}
		result += fmt.Sprintf("Indicators: RSI %.2f, MACD %.4f, Bollinger %.2f-%.2f\n",
			report.Indicators["rsi"], report.Indicators["macd"],
			report.Indicators["bollinger_lower"], report.Indicators["bollinger_upper"])

		log.Info("[Tool:get_technical_analysis] 调用完成")
		return TechnicalAnalysisOutput{Data: result}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "get_technical_analysis",
		Description: "Run technical analysis on an Indian stock: moving-average trend, RSI, MACD, Bollinger Bands and volume signals over one year of daily data",
	}, handler)
}
