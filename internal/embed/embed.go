package embed

import (
	_ "embed"
)

// SymbolsJSON 嵌入的 NSE 股票代码表
// 编译时从 symbols.json 嵌入到二进制文件中
//
//go:embed symbols.json
var SymbolsJSON []byte
