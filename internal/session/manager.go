package session

import (
	"sync"

	"github.com/google/uuid"

	"messageeditor/internal/logger"
	"messageeditor/pkg/message"
	"messageeditor/pkg/model"
)

// Committer 会话完成时的提交协作方：追加规则、持久化并使改写缓存失效
type Committer interface {
	CommitEdit(spec model.EditSpec) error
}

// Manager 全局编辑会话管理器，按玩家标识各持一个会话
type Manager struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*Edit
	committer Committer
	log       logger.Logger
}

// NewManager 创建会话管理器
func NewManager(c Committer, l logger.Logger) *Manager {
	if l == nil {
		l = logger.NewNop()
	}
	return &Manager{
		sessions:  make(map[uuid.UUID]*Edit),
		committer: c,
		log:       l,
	}
}

// Start 为玩家创建并注册新会话，已有会话被静默替换
func (m *Manager) Start(p model.Player, data message.Data) *Edit {
	m.mu.Lock()
	s := newEdit(data)
	m.sessions[p.ID()] = s
	m.mu.Unlock()

	m.log.Info("创建编辑会话", "player", p.Name(), "surface", data.Surface.Name())
	s.prompt(p)
	return s
}

// HandleChat 将玩家的聊天行交给其会话消费。
// 返回 true 表示该行已被会话吞掉，不应继续发送
func (m *Manager) HandleChat(p model.Player, line string) bool {
	m.mu.RLock()
	s, ok := m.sessions[p.ID()]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	// 会话状态只由持有者自己的聊天事件驱动，无跨玩家竞争
	s.handle(p, line, m.committer, m.log)
	if s.shouldDestroy {
		m.Remove(p.ID())
	}
	return true
}

// Get 获取玩家的会话
func (m *Manager) Get(id uuid.UUID) (*Edit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove 销毁玩家的会话，断开连接时也走这里
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return
	}
	delete(m.sessions, id)
	m.log.Info("销毁编辑会话", "player", id.String())
}

// Len 活动会话数量
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
