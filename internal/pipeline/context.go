package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"messageeditor/internal/cache"
	"messageeditor/internal/logger"
	"messageeditor/internal/packet"
	"messageeditor/internal/placeholder"
	"messageeditor/internal/rules"
	"messageeditor/internal/surface"
	"messageeditor/pkg/message"
	"messageeditor/pkg/model"
)

// ErrUnsupportedVersion 服务器协议版本低于所有位置的最低要求
var ErrUnsupportedVersion = errors.New("pipeline: server version below minimum supported version")

// Config 流水线配置
type Config struct {
	Logger              logger.Logger
	Version             message.Version
	Edits               []model.EditSpec
	Expanders           placeholder.Chain
	CacheTTL            time.Duration
	AttachHoverAndClick bool
}

// Context 流水线的显式状态载体：规则表、缓存、编解码器和统计，
// 启动时构造一次，所有组件按引用共享
type Context struct {
	log       logger.Logger
	version   message.Version
	registry  *packet.Registry
	surfaces  *surface.Set
	caches    *cache.Caches
	expanders placeholder.Chain
	attach    bool

	mu    sync.RWMutex
	edits []*rules.Edit

	analyzeMu sync.RWMutex
	analyze   map[message.Surface]bool

	total       atomic.Int64
	matched     atomic.Int64
	evaluations atomic.Int64
	statsMu     sync.Mutex
	byRule      map[string]int64
}

// New 构建流水线上下文。协议版本低于最低要求时整体拒绝启动
func New(cfg Config) (*Context, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if !cfg.Version.AtLeast(message.MinimumVersion()) {
		return nil, fmt.Errorf("%w: server %v, minimum %v",
			ErrUnsupportedVersion, cfg.Version, message.MinimumVersion())
	}
	edits, err := rules.CompileAll(cfg.Edits)
	if err != nil {
		return nil, err
	}
	c := &Context{
		log:       cfg.Logger,
		version:   cfg.Version,
		registry:  packet.NewRegistry(cfg.Version),
		surfaces:  surface.NewSet(cfg.Version),
		caches:    cache.New(cfg.CacheTTL),
		expanders: cfg.Expanders,
		attach:    cfg.AttachHoverAndClick,
		edits:     edits,
		analyze:   make(map[message.Surface]bool),
		byRule:    make(map[string]int64),
	}
	c.caches.Start()
	return c, nil
}

// Close 停止缓存清扫
func (p *Context) Close() {
	p.caches.Stop()
}

// Version 流水线绑定的协议版本
func (p *Context) Version() message.Version { return p.version }

// Registry 包模式注册表
func (p *Context) Registry() *packet.Registry { return p.registry }

// Surfaces 位置编解码器
func (p *Context) Surfaces() *surface.Set { return p.surfaces }

// Caches 消息缓存
func (p *Context) Caches() *cache.Caches { return p.caches }

// AppendEdit 追加规则。写时复制，处理中的读者持有的快照不受影响
func (p *Context) AppendEdit(e *rules.Edit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := make([]*rules.Edit, len(p.edits), len(p.edits)+1)
	copy(next, p.edits)
	p.edits = append(next, e)
}

// ReplaceEdits 整体替换规则表，用于重载
func (p *Context) ReplaceEdits(edits []*rules.Edit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edits = edits
}

// Edits 当前规则表快照
func (p *Context) Edits() []*rules.Edit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.edits
}

// SetAnalyze 开关指定位置的诊断日志
func (p *Context) SetAnalyze(sf message.Surface, active bool) {
	p.analyzeMu.Lock()
	defer p.analyzeMu.Unlock()
	p.analyze[sf] = active
}

// Analyzing 指定位置的诊断日志是否开启
func (p *Context) Analyzing(sf message.Surface) bool {
	p.analyzeMu.RLock()
	defer p.analyzeMu.RUnlock()
	return p.analyze[sf]
}

// Stats 统计快照
func (p *Context) Stats() model.Stats {
	p.statsMu.Lock()
	byRule := make(map[string]int64, len(p.byRule))
	for k, v := range p.byRule {
		byRule[k] = v
	}
	p.statsMu.Unlock()
	return model.Stats{
		Total:       p.total.Load(),
		Matched:     p.matched.Load(),
		Evaluations: p.evaluations.Load(),
		ByRule:      byRule,
	}
}

func (p *Context) countMatch(e *rules.Edit) {
	p.matched.Add(1)
	p.statsMu.Lock()
	p.byRule[e.Name()]++
	p.statsMu.Unlock()
}
