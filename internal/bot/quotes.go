package bot

import "math/rand"

// moneyQuotes 计算器结果尾部附带的轻松语录
var moneyQuotes = []string{
	"Remember: Money is like a good joke - it's all about the timing! 😄",
	"Investing is like cooking - follow the recipe but don't forget to taste! 🍳",
	"Your portfolio is like a garden - it needs both flowers and vegetables! 🌺🥕",
	"Markets are like Mumbai traffic - sometimes you just have to be patient! 🚦",
	"SIP is like morning chai - best when regular! ☕",
	"Diversification is like having backup snacks - always a good idea! 🍫",
	"Your financial goals are like GPS - they show you the way! 🗺️",
	"Risk management is like carrying an umbrella - better safe than sorry! ☔",
}

// randomQuote 随机语录
func randomQuote() string {
	return moneyQuotes[rand.Intn(len(moneyQuotes))]
}
