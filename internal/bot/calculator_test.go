package bot

import (
	"math"
	"testing"
)

func close2(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// TestCalculateSIP 定投计算
func TestCalculateSIP(t *testing.T) {
	result, err := CalculateSIP(5000, 10, 12)
	if err != nil {
		t.Fatalf("计算失败: %v", err)
	}

	if result.TotalInvestment != 600000 {
		t.Errorf("总投入 = %g, 期望 600000", result.TotalInvestment)
	}
	if result.FutureValue <= result.TotalInvestment {
		t.Errorf("终值 %g 应大于总投入 %g", result.FutureValue, result.TotalInvestment)
	}
	if !close2(result.Returns, result.FutureValue-result.TotalInvestment) {
		t.Errorf("收益 = %g, 终值 - 投入 = %g", result.Returns, result.FutureValue-result.TotalInvestment)
	}
	if result.XIRR <= 0 || result.XIRR > 12 {
		t.Errorf("XIRR = %g, 应在 (0, 12] 区间", result.XIRR)
	}
}

// TestCalculateEMI 等额本息
func TestCalculateEMI(t *testing.T) {
	result, err := CalculateEMI(100000, 12, 1)
	if err != nil {
		t.Fatalf("计算失败: %v", err)
	}

	if !close2(result.EMI, 8884.88) {
		t.Errorf("月供 = %g, 期望 8884.88", result.EMI)
	}
	if !close2(result.TotalPayment, 106618.55) {
		t.Errorf("总还款 = %g, 期望 106618.55", result.TotalPayment)
	}
	if !close2(result.TotalInterest, 6618.55) {
		t.Errorf("总利息 = %g, 期望 6618.55", result.TotalInterest)
	}
}

// TestCalculateSIPZeroInputs 零利率、零年限、零投入都不应产出 Inf/NaN
func TestCalculateSIPZeroInputs(t *testing.T) {
	for _, tc := range []struct {
		name                    string
		monthly, years, expRate float64
	}{
		{"零利率", 5000, 10, 0},
		{"零年限", 5000, 0, 12},
		{"零投入", 0, 10, 12},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := CalculateSIP(tc.monthly, tc.years, tc.expRate); err == nil {
				t.Error("分母为零应返回错误")
			}
		})
	}
}

// TestCalculateEMIZeroRate 零利率贷款分母归零，应返回错误
func TestCalculateEMIZeroRate(t *testing.T) {
	if _, err := CalculateEMI(100000, 0, 5); err == nil {
		t.Error("零利率应返回错误")
	}
	if _, err := CalculateEMI(100000, 12, 0); err == nil {
		t.Error("零年限应返回错误")
	}
}

// TestCalculateLumpsum 一次性投资复利
func TestCalculateLumpsum(t *testing.T) {
	result := CalculateLumpsum(100000, 10, 10)

	if !close2(result.FutureValue, 259374.25) {
		t.Errorf("终值 = %g, 期望 259374.25", result.FutureValue)
	}
	if result.TotalInvestment != 100000 {
		t.Errorf("投入 = %g, 期望 100000", result.TotalInvestment)
	}
	if !close2(result.Returns, 159374.25) {
		t.Errorf("收益 = %g, 期望 159374.25", result.Returns)
	}
}

// TestLearningContent 教育内容库
func TestLearningContent(t *testing.T) {
	for _, topic := range []string{"stocks", "mutual_funds", "technical"} {
		if content := LearningContent(topic); content == "" || content == "Topic not found in learning database" {
			t.Errorf("主题 %s 应有内容", topic)
		}
	}
	if got := LearningContent("crypto"); got != "Topic not found in learning database" {
		t.Errorf("未知主题 = %q", got)
	}
}
