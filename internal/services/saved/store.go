// Package saved 收藏回复的只追加存储
package saved

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/run-bigpig/finwise/internal/models"
	"github.com/run-bigpig/finwise/internal/pkg/paths"
)

// Store 收藏存储，单 JSON 文件只追加
type Store struct {
	file string
	mu   sync.Mutex
}

// NewStore 创建收藏存储
func NewStore() *Store {
	return NewStoreWithFile(filepath.Join(paths.EnsureDir(paths.GetDataDir()), "saved_responses.json"))
}

// NewStoreWithFile 指定文件路径的构造，便于测试
func NewStoreWithFile(file string) *Store {
	return &Store{file: file}
}

// Save 收藏一条回复，空内容被拒绝
func (s *Store) Save(text string) error {
	if text == "" {
		return fmt.Errorf("nothing to save")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items = append(items, models.SavedResponse{
		Text:      text,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.file, data, 0644)
}

// List 按收藏顺序返回全部条目
func (s *Store) List() ([]models.SavedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]models.SavedResponse, error) {
	data, err := os.ReadFile(s.file)
	if os.IsNotExist(err) {
		return []models.SavedResponse{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.SavedResponse
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
