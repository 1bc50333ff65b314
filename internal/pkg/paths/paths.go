package paths

import (
	"os"
	"path/filepath"
)

// GetDataDir 获取应用数据目录
func GetDataDir() string {
	userConfigDir, err := os.UserConfigDir()
	if err != nil || userConfigDir == "" {
		return filepath.Join(".", "data")
	}
	return filepath.Join(userConfigDir, "finwise")
}

// GetCacheDir 获取缓存目录
func GetCacheDir() string {
	return filepath.Join(GetDataDir(), "cache")
}

// GetAnalysisDir 获取技术分析产物目录（图表、报告）
func GetAnalysisDir() string {
	return filepath.Join(GetDataDir(), "market_analysis")
}

// GetPortfolioDir 获取投资组合存储目录
func GetPortfolioDir() string {
	return filepath.Join(GetDataDir(), "portfolios")
}

// EnsureDir 确保目录存在并返回路径
func EnsureDir(dir string) string {
	os.MkdirAll(dir, 0755)
	return dir
}

// EnsureCacheDir 确保缓存子目录存在并返回路径
func EnsureCacheDir(subDir string) string {
	return EnsureDir(filepath.Join(GetCacheDir(), subDir))
}
