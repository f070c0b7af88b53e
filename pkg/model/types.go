package model

import "github.com/google/uuid"

// UsePermission 使用消息编辑功能所需的权限节点
const UsePermission = "messageeditor.use"

// Player 宿主侧玩家连接的抽象，由宿主进程实现
type Player interface {
	ID() uuid.UUID
	Name() string
	HasPermission(node string) bool
	SendMessage(text string)
}

// EditSpec 编辑规则的序列化形式，用于配置种子、存储记录和接口列举
type EditSpec struct {
	Name        string `yaml:"name" json:"name"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	BeforePlace string `yaml:"before-place" json:"beforePlace"`
	After       string `yaml:"after" json:"after"`
	AfterPlace  string `yaml:"after-place" json:"afterPlace"`
}

// Stats 流水线统计信息
type Stats struct {
	Total       int64            `json:"total"`
	Matched     int64            `json:"matched"`
	Evaluations int64            `json:"evaluations"`
	ByRule      map[string]int64 `json:"byRule"`
}

// Notifier 更新检查协作方，仅接口
type Notifier interface {
	UpdateMessage() string
}
