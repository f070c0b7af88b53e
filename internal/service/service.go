package service

import (
	"errors"
	"fmt"
	"time"

	"messageeditor/internal/config"
	"messageeditor/internal/logger"
	"messageeditor/internal/packet"
	"messageeditor/internal/pipeline"
	"messageeditor/internal/placeholder"
	"messageeditor/internal/rules"
	"messageeditor/internal/session"
	"messageeditor/internal/storage"
	"messageeditor/pkg/message"
	"messageeditor/pkg/model"
)

// ErrUnknownMessage 消息标识在解码缓存中不存在或已过期
var ErrUnknownMessage = errors.New("service: unknown or expired message id")

// ErrUnknownSurface 无法解析的位置名称
var ErrUnknownSurface = errors.New("service: unknown surface")

// Config 服务装配配置
type Config struct {
	Config    *config.Config
	Logger    logger.Logger
	Expanders placeholder.Chain
	Notifier  model.Notifier
}

// Service 对宿主暴露的完整服务：出站包改写、入站聊天消费、
// 交互编辑入口和管理操作
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	store    *storage.Store
	pipe     *pipeline.Context
	sessions *session.Manager
	notifier model.Notifier
}

// New 装配服务：打开存储、装载（必要时播种）规则、构建流水线
func New(cfg Config) (*Service, error) {
	if cfg.Config == nil {
		cfg.Config = config.NewConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	l := cfg.Logger

	version, err := message.ParseVersion(cfg.Config.Server.Version)
	if err != nil {
		return nil, fmt.Errorf("server version: %w", err)
	}

	store, err := storage.Open(cfg.Config.Sqlite.Dsn, cfg.Config.Sqlite.Prefix, l)
	if err != nil {
		return nil, err
	}

	specs, err := store.Load()
	if err != nil {
		store.Close()
		return nil, err
	}
	if len(specs) == 0 && len(cfg.Config.Edits) > 0 {
		l.Info("存储为空，写入配置规则种子", "count", len(cfg.Config.Edits))
		if err := store.Replace(cfg.Config.Edits); err != nil {
			store.Close()
			return nil, err
		}
		specs = cfg.Config.Edits
	}

	pipe, err := pipeline.New(pipeline.Config{
		Logger:              l,
		Version:             version,
		Edits:               specs,
		Expanders:           cfg.Expanders,
		CacheTTL:            time.Duration(cfg.Config.Cache.TTLMinutes) * time.Minute,
		AttachHoverAndClick: cfg.Config.AttachHoverAndClick,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	s := &Service{
		cfg:      cfg.Config,
		log:      l,
		store:    store,
		pipe:     pipe,
		notifier: cfg.Notifier,
	}
	s.sessions = session.NewManager(s, l)
	l.Info("消息编辑服务已启动", "version", version.String(), "edits", len(specs))
	return s, nil
}

// HandlePacket 出站包入口
func (s *Service) HandlePacket(p model.Player, ev *packet.Event) error {
	return s.pipe.Process(p, ev)
}

// HandleChat 入站聊天入口，返回 true 表示该行被编辑会话消费
func (s *Service) HandleChat(p model.Player, line string) bool {
	return s.sessions.HandleChat(p, line)
}

// StartEdit 交互编辑入口：按消息标识反查解码缓存并开启会话
func (s *Service) StartEdit(p model.Player, messageID string) error {
	data, ok := s.pipe.Caches().GetData(messageID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMessage, messageID)
	}
	s.sessions.Start(p, data)
	return nil
}

// CommitEdit 会话提交路径：追加规则、持久化并使改写缓存失效
func (s *Service) CommitEdit(spec model.EditSpec) error {
	e, err := rules.Compile(spec)
	if err != nil {
		return err
	}
	if err := s.store.Append(spec); err != nil {
		return err
	}
	s.pipe.AppendEdit(e)
	s.pipe.Caches().InvalidateRewrites()
	return nil
}

// AddEdit 管理接口追加规则，语义与会话提交一致
func (s *Service) AddEdit(spec model.EditSpec) error {
	return s.CommitEdit(spec)
}

// Edits 当前规则表的序列化快照
func (s *Service) Edits() []model.EditSpec {
	edits := s.pipe.Edits()
	specs := make([]model.EditSpec, 0, len(edits))
	for _, e := range edits {
		specs = append(specs, e.Spec())
	}
	return specs
}

// Reload 从存储重载规则表并清空改写缓存
func (s *Service) Reload() error {
	specs, err := s.store.Load()
	if err != nil {
		return err
	}
	edits, err := rules.CompileAll(specs)
	if err != nil {
		return err
	}
	s.pipe.ReplaceEdits(edits)
	s.pipe.Caches().InvalidateRewrites()
	s.log.Info("规则表已重载", "count", len(edits))
	return nil
}

// ClearMessages 清空改写缓存
func (s *Service) ClearMessages() {
	s.pipe.Caches().InvalidateRewrites()
}

// ClearMessageData 清空解码消息缓存
func (s *Service) ClearMessageData() {
	s.pipe.Caches().InvalidateAllData()
}

// SetAnalyze 开关指定位置的诊断日志
func (s *Service) SetAnalyze(surfaceName string, active bool) error {
	sf, ok := message.ParseSurface(surfaceName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSurface, surfaceName)
	}
	s.pipe.SetAnalyze(sf, active)
	return nil
}

// Stats 流水线统计快照
func (s *Service) Stats() model.Stats {
	return s.pipe.Stats()
}

// HandleJoin 玩家加入：持权玩家按配置收到更新提示
func (s *Service) HandleJoin(p model.Player) {
	if s.notifier == nil || !s.cfg.Update.Notify {
		return
	}
	if p.HasPermission(model.UsePermission) {
		p.SendMessage(s.notifier.UpdateMessage())
	}
}

// HandleQuit 玩家退出：销毁其编辑会话，防止表项泄漏
func (s *Service) HandleQuit(p model.Player) {
	s.sessions.Remove(p.ID())
}

// Sessions 活动会话数量
func (s *Service) Sessions() int {
	return s.sessions.Len()
}

// Close 停止缓存清扫并关闭存储
func (s *Service) Close() error {
	s.pipe.Close()
	return s.store.Close()
}
