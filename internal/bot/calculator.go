package bot

import (
	"errors"
	"math"
)

// ErrDivisionByZero 零利率或零期限会让公式分母归零
var ErrDivisionByZero = errors.New("division by zero")

// SIPResult SIP 定投计算结果
type SIPResult struct {
	FutureValue     float64
	TotalInvestment float64
	Returns         float64
	XIRR            float64
}

// CalculateSIP 按月定投的复利终值，expectedReturn 为年化百分比
func CalculateSIP(monthlyInvestment, years, expectedReturn float64) (SIPResult, error) {
	monthlyRate := expectedReturn / (12 * 100)
	months := years * 12
	totalInvestment := monthlyInvestment * months
	if monthlyRate == 0 || years == 0 || totalInvestment == 0 {
		return SIPResult{}, ErrDivisionByZero
	}

	futureValue := monthlyInvestment * ((math.Pow(1+monthlyRate, months) - 1) / monthlyRate) * (1 + monthlyRate)
	returns := futureValue - totalInvestment
	xirr := (math.Pow(futureValue/totalInvestment, 1/years) - 1) * 100

	return SIPResult{
		FutureValue:     round2(futureValue),
		TotalInvestment: round2(totalInvestment),
		Returns:         round2(returns),
		XIRR:            round2(xirr),
	}, nil
}

// LumpsumResult 一次性投资计算结果
type LumpsumResult struct {
	FutureValue     float64
	TotalInvestment float64
	Returns         float64
}

// CalculateLumpsum 一次性投资的复利终值
func CalculateLumpsum(principal, years, expectedReturn float64) LumpsumResult {
	futureValue := principal * math.Pow(1+expectedReturn/100, years)
	return LumpsumResult{
		FutureValue:     round2(futureValue),
		TotalInvestment: principal,
		Returns:         round2(futureValue - principal),
	}
}

// EMIResult 等额本息计算结果
type EMIResult struct {
	EMI           float64
	TotalPayment  float64
	TotalInterest float64
}

// CalculateEMI 等额本息月供，rate 为年化利率百分比
func CalculateEMI(principal, rate, years float64) (EMIResult, error) {
	monthlyRate := rate / (12 * 100)
	months := years * 12
	denom := math.Pow(1+monthlyRate, months) - 1
	if denom == 0 {
		return EMIResult{}, ErrDivisionByZero
	}

	emi := (principal * monthlyRate * math.Pow(1+monthlyRate, months)) / denom
	totalPayment := emi * months

	return EMIResult{
		EMI:           round2(emi),
		TotalPayment:  round2(totalPayment),
		TotalInterest: round2(totalPayment - principal),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
