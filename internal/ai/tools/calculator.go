package tools

import (
	"fmt"

	"github.com/run-bigpig/finwise/internal/bot"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// SIPCalculatorInput 定投计算输入参数
type SIPCalculatorInput struct {
	MonthlyInvestment float64 `json:"monthly_investment" jsonschema:"Monthly investment amount in rupees"`
	Years             float64 `json:"years" jsonschema:"Investment horizon in years"`
	ExpectedReturn    float64 `json:"expected_return" jsonschema:"Expected annual return in percent, e.g. 12"`
}

// CalculatorOutput 计算器通用输出
type CalculatorOutput struct {
	Data string `json:"data" jsonschema:"Calculation result"`
}

// createSIPCalculatorTool 创建定投计算工具
func (r *Registry) createSIPCalculatorTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input SIPCalculatorInput) (CalculatorOutput, error) {
		log.Info("[Tool:calculate_sip] monthly=%.2f years=%.1f return=%.1f",
			input.MonthlyInvestment, input.Years, input.ExpectedReturn)

		result, err := bot.CalculateSIP(input.MonthlyInvestment, input.Years, input.ExpectedReturn)
		if err != nil {
			return CalculatorOutput{}, fmt.Errorf("SIP calculation failed: %w", err)
		}
		data := fmt.Sprintf("SIP of ₹%.2f/month for %g years at %g%%: future value ₹%.2f, invested ₹%.2f, returns ₹%.2f, XIRR %.2f%%",
			input.MonthlyInvestment, input.Years, input.ExpectedReturn,
			result.FutureValue, result.TotalInvestment, result.Returns, result.XIRR)
		return CalculatorOutput{Data: data}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "calculate_sip",
		Description: "Calculate the future value and XIRR of a monthly SIP (systematic investment plan)",
	}, handler)
}

// EMICalculatorInput 等额本息计算输入参数
type EMICalculatorInput struct {
	Principal float64 `json:"principal" jsonschema:"Loan principal in rupees"`
	Rate      float64 `json:"rate" jsonschema:"Annual interest rate in percent"`
	Years     float64 `json:"years" jsonschema:"Loan tenure in years"`
}

// createEMICalculatorTool 创建等额本息计算工具
func (r *Registry) createEMICalculatorTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input EMICalculatorInput) (CalculatorOutput, error) {
		log.Info("[Tool:calculate_emi] principal=%.2f rate=%.1f years=%.1f",
			input.Principal, input.Rate, input.Years)

		result, err := bot.CalculateEMI(input.Principal, input.Rate, input.Years)
		if err != nil {
			return CalculatorOutput{}, fmt.Errorf("EMI calculation failed: %w", err)
		}
		data := fmt.Sprintf("Loan of ₹%.2f at %g%% for %g years: EMI ₹%.2f, total payment ₹%.2f, total interest ₹%.2f",
			input.Principal, input.Rate, input.Years,
			result.EMI, result.TotalPayment, result.TotalInterest)
		return CalculatorOutput{Data: data}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "calculate_emi",
		Description: "Calculate the monthly EMI, total payment and total interest for a loan",
	}, handler)
}

// LumpsumCalculatorInput 一次性投资计算输入参数
type LumpsumCalculatorInput struct {
	Principal      float64 `json:"principal" jsonschema:"One-time investment amount in rupees"`
	Years          float64 `json:"years" jsonschema:"Investment horizon in years"`
	ExpectedReturn float64 `json:"expected_return" jsonschema:"Expected annual return in percent"`
}

// createLumpsumCalculatorTool 创建一次性投资计算工具
func (r *Registry) createLumpsumCalculatorTool() (tool.Tool, error) {
	handler := func(ctx tool.Context, input LumpsumCalculatorInput) (CalculatorOutput, error) {
		log.Info("[Tool:calculate_lumpsum] principal=%.2f years=%.1f return=%.1f",
			input.Principal, input.Years, input.ExpectedReturn)

		result := bot.CalculateLumpsum(input.Principal, input.Years, input.ExpectedReturn)
		data := fmt.Sprintf("Lumpsum of ₹%.2f for %g years at %g%%: future value ₹%.2f, returns ₹%.2f",
			input.Principal, input.Years, input.ExpectedReturn,
			result.FutureValue, result.Returns)
		return CalculatorOutput{Data: data}, nil
	}

	return functiontool.New(functiontool.Config{
		Name:        "calculate_lumpsum",
		Description: "Calculate compound growth of a one-time lumpsum investment",
	}, handler)
}
