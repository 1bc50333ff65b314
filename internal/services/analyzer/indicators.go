// Package analyzer 技术指标计算与分析报告生成
package analyzer

import "math"

// SMA 简单移动平均，前 period-1 个位置为 NaN
func SMA(series []float64, period int) []float64 {
	out := nanSeries(len(series))
	if period <= 0 || len(series) < period {
		return out
	}

	var sum float64
	for i, v := range series {
		sum += v
		if i >= period {
			sum -= series[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA 指数移动平均，以首个 SMA 作为种子
func EMA(series []float64, period int) []float64 {
	out := nanSeries(len(series))
	if period <= 0 || len(series) < period {
		return out
	}

	var seed float64
	for _, v := range series[:period] {
		seed += v
	}
	seed /= float64(period)
	out[period-1] = seed

	k := 2.0 / float64(period+1)
	for i := period; i < len(series); i++ {
		out[i] = series[i]*k + out[i-1]*(1-k)
	}
	return out
}

// RSI 相对强弱指数，Wilder 平滑
func RSI(series []float64, period int) []float64 {
	out := nanSeries(len(series))
	if period <= 0 || len(series) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := series[i] - series[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(series); i++ {
		change := series[i] - series[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD 计算 MACD 线、信号线与柱状图，参数 12/26/9
func MACD(series []float64) (macdLine, signalLine, histogram []float64) {
	fast := EMA(series, 12)
	slow := EMA(series, 26)

	macdLine = nanSeries(len(series))
	for i := range series {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			macdLine[i] = fast[i] - slow[i]
		}
	}

	// 信号线是 MACD 线的 9 期 EMA，跳过前导 NaN
	start := firstValid(macdLine)
	signalLine = nanSeries(len(series))
	histogram = nanSeries(len(series))
	if start < 0 || len(macdLine)-start < 9 {
		return macdLine, signalLine, histogram
	}

	sub := EMA(macdLine[start:], 9)
	for i, v := range sub {
		signalLine[start+i] = v
		if !math.IsNaN(v) && !math.IsNaN(macdLine[start+i]) {
			histogram[start+i] = macdLine[start+i] - v
		}
	}
	return macdLine, signalLine, histogram
}

// Bollinger 布林带，period 期均线 ± mult 倍标准差
func Bollinger(series []float64, period int, mult float64) (upper, middle, lower []float64) {
	middle = SMA(series, period)
	upper = nanSeries(len(series))
	lower = nanSeries(len(series))

	for i := period - 1; i < len(series); i++ {
		window := series[i-period+1 : i+1]
		var sum float64
		for _, v := range window {
			sum += (v - middle[i]) * (v - middle[i])
		}
		sd := math.Sqrt(sum / float64(period))
		upper[i] = middle[i] + mult*sd
		lower[i] = middle[i] - mult*sd
	}
	return upper, middle, lower
}

// Last 序列末尾的有效值，全 NaN 时返回 0
func Last(series []float64) float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if !math.IsNaN(series[i]) {
			return series[i]
		}
	}
	return 0
}

func firstValid(series []float64) int {
	for i, v := range series {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
