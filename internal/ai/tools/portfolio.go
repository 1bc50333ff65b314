package tools

import (
	"fmt"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// PortfolioSummaryInput 组合摘要输入参数
type PortfolioSummaryInput struct {
	UserID string `json:"user_id,omitzero" jsonschema:"User identifier, defaults to the current user"`
}

// PortfolioSummaryOutput 组合摘要输出
type PortfolioSummaryOutput struct {
	Data string `json:"data" jsonschema:"Portfolio valuation with per-holding profit and loss"`
}

// createPortfolioSummaryTool 创建组合摘要工具
func (r *Registry) createPortfolioSummaryTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input PortfolioSummaryInput) (PortfolioSummaryOutput, error) {
		userID := input.UserID
		if userID == "" {
			userID = "default"
		}
		log.Info("[Tool:get_portfolio_summary] 调用开始, user=%s", userID)

		summary, err := r.portfolioManager.Summary(ctx, userID)
		if err != nil {
			log.Warn("[Tool:get_portfolio_summary] %v", err)
			return PortfolioSummaryOutput{Data: "The user has no portfolio yet or it is empty."}, nil
		}

		result := "Portfolio summary:\n"
		for _, h := range summary.Summary {
			result += fmt.Sprintf("- %s: %g shares, bought at ₹%.2f, now ₹%.2f, P/L ₹%.2f (%.2f%%)\n",
				h.Symbol, h.Quantity, h.BuyPrice, h.CurrentPrice, h.ProfitLoss, h.ProfitLossPercent)
		}
		result += fmt.Sprintf("Total invested ₹%.2f, current value ₹%.2f, overall P/L ₹%.2f (%.2f%%)\n",
			summary.TotalInvestment, summary.CurrentValue, summary.TotalProfitLoss, summary.TotalProfitLossPercent)

		if metrics, err := r.portfolioManager.Metrics(ctx, userID); err == nil {
			result += fmt.Sprintf("Diversification: %d holdings, risk level %s\n",
				metrics.DiversificationScore, metrics.RiskLevel)
		}

		log.Info("[Tool:get_portfolio_summary] 调用完成, %d 只持仓", len(summary.Summary))
		return PortfolioSummaryOutput{Data: result}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "get_portfolio_summary",
		Description: "Get the user's portfolio valuation: holdings, profit and loss, and diversification metrics",
	}, handler)
}
