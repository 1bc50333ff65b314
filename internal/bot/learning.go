package bot

// learningTopics 内置教育内容库
var learningTopics = map[string]string{
	"stocks": `📚 Introduction to Stocks

What are Stocks?
- Stocks represent ownership in a company
- When you buy a stock, you become a shareholder

Key Concepts:
1. Share Price: Market value of one share
2. Market Cap: Total value of the company
3. Dividends: Profits distributed to shareholders
4. Trading: Buying and selling shares

How to Start:
1. Open a demat account
2. Choose a reliable broker
3. Start with blue-chip companies
4. Diversify your investments

Risk Management:
- Never invest all money in one stock
- Research before investing
- Keep track of company news
- Set stop-loss orders

⚠️ Disclaimer: This is educational content. Consult a SEBI registered advisor for personalized advice.`,

	"mutual_funds": `📚 Understanding Mutual Funds

What are Mutual Funds?
- Professional managed investment pools
- Money collected from many investors
- Invested in stocks, bonds, etc.

Types of Mutual Funds:
1. Equity Funds
2. Debt Funds
3. Hybrid Funds
4. Index Funds

Key Concepts:
- NAV (Net Asset Value)
- Expense Ratio
- Exit Load
- Fund Management

How to Invest:
1. Choose fund type based on goals
2. Start SIP for regular investing
3. Track performance regularly
4. Stay invested for long term

⚠️ Disclaimer: This is educational content. Consult a SEBI registered advisor for personalized advice.`,

	"technical": `📚 Technical Analysis Basics

What is Technical Analysis?
- Study of price movements
- Uses charts and patterns
- Helps predict future trends

Key Indicators:
1. Moving Averages (SMA, EMA)
2. RSI (Relative Strength Index)
3. MACD (Moving Average Convergence Divergence)
4. Bollinger Bands

Chart Patterns:
- Head and Shoulders
- Double Top/Bottom
- Triangle Patterns
- Support and Resistance

Volume Analysis:
- Volume confirms trends
- High volume = strong movement
- Low volume = weak movement

⚠️ Disclaimer: This is educational content. Past performance doesn't guarantee future results.`,
}

// LearningContent 按主题返回教育内容，未知主题给出提示
func LearningContent(topic string) string {
	if content, ok := learningTopics[topic]; ok {
		return content
	}
	return "Topic not found in learning database"
}
