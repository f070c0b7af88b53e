package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"messageeditor/pkg/model"
)

// Config 配置文件结构体
type Config struct {
	Server struct {
		Version string `yaml:"version"`
	} `yaml:"server"`

	Sqlite struct {
		Dsn    string `yaml:"dsn"`
		Prefix string `yaml:"prefix"`
	} `yaml:"sqlite"`

	Log struct {
		Level  string   `yaml:"level"`
		Writer []string `yaml:"writer"`
		File   string   `yaml:"file"`
	} `yaml:"log"`

	Cache struct {
		TTLMinutes int `yaml:"ttl-minutes"`
	} `yaml:"cache"`

	Update struct {
		Notify bool `yaml:"notify"`
	} `yaml:"update"`

	// AttachHoverAndClick 是否给聊天消息附加编辑入口
	AttachHoverAndClick bool `yaml:"attach-hover-and-click"`

	// Edits 规则种子，仅在存储为空时写入
	Edits []model.EditSpec `yaml:"edits"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	c := &Config{}
	c.Server.Version = "1.16"
	c.Sqlite.Dsn = "message-editor.sqlite3"
	c.Sqlite.Prefix = "messageeditor_"
	c.Log.Level = "info"
	c.Log.Writer = []string{"console"}
	c.Log.File = "message-editor.log"
	c.Cache.TTLMinutes = 15
	c.Update.Notify = true
	c.AttachHoverAndClick = true
	return c
}

// Load 读取配置文件并覆盖默认值，文件不存在时返回默认配置
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}
