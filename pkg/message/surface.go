package message

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Surface 消息呈现位置
type Surface int

const (
	SurfaceNone Surface = iota
	GameChat
	SystemChat
	ActionBar
	BossBar
	ScoreboardTitle
	ScoreboardEntry
	LoginDisconnect
	PlayDisconnect
)

// surfaceInfo 每个位置的静态属性
type surfaceInfo struct {
	symbol  string
	name    string
	minimum Version
}

var surfaces = map[Surface]surfaceInfo{
	GameChat:        {"GC", "game chat", Version{1, 8}},
	SystemChat:      {"SC", "system chat", Version{1, 8}},
	ActionBar:       {"AB", "action bar", Version{1, 8}},
	BossBar:         {"BB", "boss bar", Version{1, 9}},
	ScoreboardTitle: {"ST", "scoreboard title", Version{1, 8}},
	ScoreboardEntry: {"SE", "scoreboard entry", Version{1, 8}},
	LoginDisconnect: {"LD", "login disconnect", Version{1, 8}},
	PlayDisconnect:  {"PD", "play disconnect", Version{1, 8}},
}

// Surfaces 返回全部位置，顺序固定
func Surfaces() []Surface {
	return []Surface{
		GameChat, SystemChat, ActionBar, BossBar,
		ScoreboardTitle, ScoreboardEntry, LoginDisconnect, PlayDisconnect,
	}
}

// Symbol 返回位置短符号
func (s Surface) Symbol() string { return surfaces[s].symbol }

// Name 返回位置友好名称
func (s Surface) Name() string { return surfaces[s].name }

// Minimum 返回支持该位置所需的最低协议版本
func (s Surface) Minimum() Version { return surfaces[s].minimum }

func (s Surface) String() string { return surfaces[s].name }

// ChatFamily 聊天族位置：游戏聊天、系统聊天、动作栏
func (s Surface) ChatFamily() bool {
	return s == GameChat || s == SystemChat || s == ActionBar
}

// ChatType 聊天族位置在聊天包中的类型判别值
func (s Surface) ChatType() (int, bool) {
	switch s {
	case GameChat:
		return 0, true
	case SystemChat:
		return 1, true
	case ActionBar:
		return 2, true
	}
	return 0, false
}

// SurfaceFromChatType 由聊天包类型判别值反查位置
func SurfaceFromChatType(v int) (Surface, bool) {
	switch v {
	case 0:
		return GameChat, true
	case 1:
		return SystemChat, true
	case 2:
		return ActionBar, true
	}
	return SurfaceNone, false
}

// ParseSurface 按符号或名称解析位置，大小写不敏感
func ParseSurface(s string) (Surface, bool) {
	t := strings.TrimSpace(s)
	for _, sf := range Surfaces() {
		info := surfaces[sf]
		if strings.EqualFold(t, info.symbol) ||
			strings.EqualFold(t, info.name) ||
			strings.EqualFold(t, strings.ReplaceAll(info.name, " ", "_")) {
			return sf, true
		}
	}
	return SurfaceNone, false
}

// MinimumVersion 所有位置中最低的协议版本要求
func MinimumVersion() Version {
	min := Version{}
	first := true
	for _, sf := range Surfaces() {
		m := sf.Minimum()
		if first || !m.AtLeast(min) {
			min = m
			first = false
		}
	}
	return min
}

// Data 解码后的消息值对象
type Data struct {
	Surface Surface
	Text    string
	JSON    bool
}

// ComposeID 由位置和文本组合出稳定的消息标识，
// 可安全嵌入命令参数（不含分词敏感字符）
func ComposeID(s Surface, text string) string {
	sum := sha256.Sum256([]byte(text))
	return s.Symbol() + "-" + hex.EncodeToString(sum[:])[:16]
}
