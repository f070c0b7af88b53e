package api

import (
	"messageeditor/internal/config"
	"messageeditor/internal/logger"
	"messageeditor/internal/packet"
	"messageeditor/internal/placeholder"
	"messageeditor/internal/service"
	"messageeditor/pkg/model"
)

// Service 服务接口
type Service interface {
	// HandlePacket 处理一个出站包
	HandlePacket(p model.Player, ev *packet.Event) error

	// HandleChat 处理一行入站聊天，返回 true 表示已被编辑会话消费
	HandleChat(p model.Player, line string) bool

	// StartEdit 按消息标识开启交互编辑会话
	StartEdit(p model.Player, messageID string) error

	// Edits 列出当前规则表
	Edits() []model.EditSpec

	// AddEdit 追加规则
	AddEdit(spec model.EditSpec) error

	// Reload 从存储重载规则表
	Reload() error

	// ClearMessages 清空改写缓存
	ClearMessages()

	// ClearMessageData 清空解码消息缓存
	ClearMessageData()

	// SetAnalyze 开关指定位置的诊断日志
	SetAnalyze(surface string, active bool) error

	// Stats 获取流水线统计信息
	Stats() model.Stats

	// HandleJoin 玩家加入回调
	HandleJoin(p model.Player)

	// HandleQuit 玩家退出回调
	HandleQuit(p model.Player)

	// Close 释放资源
	Close() error
}

// Config 服务装配配置
type Config struct {
	Config    *config.Config
	Logger    logger.Logger
	Expanders placeholder.Chain
	Notifier  model.Notifier
}

// New 创建并返回服务接口实现
func New(cfg Config) (Service, error) {
	return service.New(service.Config{
		Config:    cfg.Config,
		Logger:    cfg.Logger,
		Expanders: cfg.Expanders,
		Notifier:  cfg.Notifier,
	})
}
