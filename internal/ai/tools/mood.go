package tools

import (
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// MarketMoodInput 市场情绪输入参数，无需字段但 functiontool 要求非空 schema
type MarketMoodInput struct {
	Detail bool `json:"detail,omitzero" jsonschema:"Reserved, pass false"`
}

// MarketMoodOutput 市场情绪输出
type MarketMoodOutput struct {
	Data string `json:"data" jsonschema:"Current Nifty50-based market mood summary"`
}

// createMarketMoodTool 创建市场情绪工具
func (r *Registry) createMarketMoodTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input MarketMoodInput) (MarketMoodOutput, error) {
		log.Info("[Tool:get_market_mood] 调用开始")
		mood := r.marketService.MarketMood(ctx)
		log.Info("[Tool:get_market_mood] 调用完成")
		return MarketMoodOutput{Data: mood}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "get_market_mood",
		Description: "Get the current Indian market mood derived from recent Nifty50 movement and trading volume",
	}, handler)
}
