package config

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/run-bigpig/finwise/internal/embed"
	"github.com/run-bigpig/finwise/internal/models"
)

var (
	symbolsOnce sync.Once
	symbolTable []models.StockSymbol
)

// loadSymbols 延迟解析嵌入的代码表，失败时表为空
func loadSymbols() []models.StockSymbol {
	symbolsOnce.Do(func() {
		if err := json.Unmarshal(embed.SymbolsJSON, &symbolTable); err != nil {
			configLog.Error("embedded symbol table corrupted: %v", err)
		}
	})
	return symbolTable
}

// SearchSymbols 按代码或名称搜索内置 NSE 代码表
// 排序分三档：代码前缀、名称前缀、包含命中
func (s *Service) SearchSymbols(keyword string, limit int) []models.StockSymbol {
	keyword = strings.ToUpper(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	var symbolPrefix, namePrefix, contains []models.StockSymbol
	for _, sym := range loadSymbols() {
		symbol := strings.ToUpper(sym.Symbol)
		name := strings.ToUpper(sym.Name)
		switch {
		case strings.HasPrefix(symbol, keyword):
			symbolPrefix = append(symbolPrefix, sym)
		case strings.HasPrefix(name, keyword):
			namePrefix = append(namePrefix, sym)
		case strings.Contains(symbol, keyword) || strings.Contains(name, keyword):
			contains = append(contains, sym)
		}
	}

	result := append(append(symbolPrefix, namePrefix...), contains...)
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
