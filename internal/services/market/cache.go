package market

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// cacheEntry 缓存条目
type cacheEntry struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FileCache 文件缓存管理器
type FileCache struct {
	cacheDir string
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewFileCache 创建文件缓存
func NewFileCache(cacheDir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{
		cacheDir: cacheDir,
		ttl:      ttl,
	}, nil
}

// cacheFilePath 获取缓存文件路径
func (c *FileCache) cacheFilePath(key string) string {
	// 键可能含路径分隔符，统一替换
	safe := strings.NewReplacer("/", "_", "\\", "_", "^", "_").Replace(key)
	return filepath.Join(c.cacheDir, safe+".json")
}

// Get 读取缓存数据，过期或不存在返回 false
func (c *FileCache) Get(key string, out any) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.cacheFilePath(key))
	if err != nil {
		return false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return false
	}

	// 检查是否过期
	if time.Since(entry.UpdatedAt) > c.ttl {
		return false
	}

	return json.Unmarshal(entry.Data, out) == nil
}

// Set 写入缓存数据
func (c *FileCache) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := cacheEntry{
		Data:      raw,
		UpdatedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.cacheFilePath(key), data, 0644)
}
