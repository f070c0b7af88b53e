package surface

import (
	"fmt"
	"strings"

	"messageeditor/internal/chat"
	"messageeditor/internal/packet"
	"messageeditor/pkg/message"
)

// Set 将包类型绑定到消息位置的编解码器集合
type Set struct {
	version message.Version
}

// NewSet 为给定协议版本创建编解码器集合
func NewSet(v message.Version) *Set {
	return &Set{version: v}
}

// Supported 当前版本是否支持该位置
func (s *Set) Supported(sf message.Surface) bool {
	return s.version.AtLeast(sf.Minimum())
}

// Identify 判定包对应的消息位置。每种可解码的包类型映射到
// 恰好一个位置，无法判定时返回 false
func (s *Set) Identify(c *packet.Container) (message.Surface, bool) {
	switch c.Type() {
	case packet.TypeChat:
		v, err := s.readChatType(c)
		if err != nil {
			return message.SurfaceNone, false
		}
		return message.SurfaceFromChatType(v)
	case packet.TypeBossBar:
		return message.BossBar, true
	case packet.TypeScoreboardObjective:
		return message.ScoreboardTitle, true
	case packet.TypeScoreboardScore:
		return message.ScoreboardEntry, true
	case packet.TypeLoginDisconnect:
		return message.LoginDisconnect, true
	case packet.TypePlayDisconnect:
		return message.PlayDisconnect, true
	}
	return message.SurfaceNone, false
}

// Extract 取出包内文本。销毁类或无关的动作返回 false，
// 表示该包不参与改写
func (s *Set) Extract(c *packet.Container, sf message.Surface) (string, bool) {
	switch sf {
	case message.GameChat, message.SystemChat, message.ActionBar,
		message.LoginDisconnect, message.PlayDisconnect:
		return s.readComponent(c)

	case message.BossBar:
		action, err := c.Enums(packet.EnumBossBarAction).Read(0)
		if err != nil {
			return "", false
		}
		if action != packet.BossBarAdd && action != packet.BossBarUpdateName {
			return "", false
		}
		return s.readComponent(c)

	case message.ScoreboardTitle:
		action, err := c.Ints().Read(0)
		if err != nil {
			return "", false
		}
		if action != packet.ObjectiveCreate && action != packet.ObjectiveUpdate {
			return "", false
		}
		// 1.13 前显示名是旧式字符串槽位
		if c.Strings().Size() == 2 {
			text, err := c.Strings().Read(1)
			if err != nil || text == "" {
				return "", false
			}
			return text, true
		}
		return s.readComponent(c)

	case message.ScoreboardEntry:
		action, err := c.Enums(packet.EnumScoreAction).Read(0)
		if err != nil || action == packet.ScoreRemove {
			return "", false
		}
		text, err := c.Strings().Read(0)
		if err != nil || text == "" {
			return "", false
		}
		return text, true
	}
	return "", false
}

// Write 将文本写回包内对应槽位。组件槽位在 structured 时写入
// 原始 JSON，否则写入旧式文本的组件编码
func (s *Set) Write(c *packet.Container, sf message.Surface, text string, structured bool) error {
	switch sf {
	case message.GameChat, message.SystemChat, message.ActionBar,
		message.BossBar, message.LoginDisconnect, message.PlayDisconnect:
		return s.writeComponent(c, text, structured)

	case message.ScoreboardTitle:
		if c.Strings().Size() == 2 {
			return c.Strings().Write(1, text)
		}
		return s.writeComponent(c, text, structured)

	case message.ScoreboardEntry:
		return c.Strings().Write(0, text)
	}
	return fmt.Errorf("surface %v: no writable slot", sf)
}

// WriteChatType 改写聊天包的类型判别槽位，用于聊天族位置重定向
func (s *Set) WriteChatType(c *packet.Container, sf message.Surface) error {
	v, ok := sf.ChatType()
	if !ok {
		return fmt.Errorf("surface %v: not a chat family surface", sf)
	}
	if c.Bytes().Size() == 1 {
		return c.Bytes().Write(0, byte(v))
	}
	return c.Enums(packet.EnumChatType).Write(0, v)
}

func (s *Set) readChatType(c *packet.Container) (int, error) {
	if c.Bytes().Size() == 1 {
		b, err := c.Bytes().Read(0)
		return int(b), err
	}
	return c.Enums(packet.EnumChatType).Read(0)
}

func (s *Set) readComponent(c *packet.Container) (string, bool) {
	text, err := c.Components().Read(0)
	if err != nil || text == "" {
		return "", false
	}
	return text, true
}

func (s *Set) writeComponent(c *packet.Container, text string, structured bool) error {
	if !structured {
		text = "[" + strings.Join(chat.LegacyComponents(text), ",") + "]"
	}
	return c.Components().Write(0, text)
}
