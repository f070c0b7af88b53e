package session

import (
	"regexp"
	"strings"

	"messageeditor/internal/chat"
	"messageeditor/internal/logger"
	"messageeditor/pkg/message"
	"messageeditor/pkg/model"
)

const prefix = "§8[§6Message Editor§8]§7 "

// Mode 会话所处的状态
type Mode int

const (
	ModeNone Mode = iota
	ModePatternKey
	ModePatternValue
	ModeReplacement
	ModeDestination
)

// Edit 单个玩家的规则编辑会话状态。
// 从被点击的消息播种，经多轮聊天输入逐步攒出一条编辑规则
type Edit struct {
	before        string
	beforeJSON    bool
	beforePattern string
	patternKey    string
	beforePlace   message.Surface

	after      string
	afterPlace message.Surface

	mode          Mode
	shouldDestroy bool
}

func newEdit(data message.Data) *Edit {
	return &Edit{
		before:        data.Text,
		beforeJSON:    data.JSON,
		beforePattern: regexp.QuoteMeta(data.Text),
		beforePlace:   data.Surface,
		after:         data.Text,
		afterPlace:    data.Surface,
	}
}

// Mode 当前状态
func (s *Edit) Mode() Mode { return s.mode }

// Pattern 当前工作模式串
func (s *Edit) Pattern() string { return s.beforePattern }

func (s *Edit) prompt(p model.Player) {
	s.mode = ModePatternKey
	shown := s.before
	if s.beforeJSON {
		shown = chat.PlainText(s.before)
	}
	p.SendMessage(prefix + "You are now editing a §e" + s.beforePlace.Name() + "§7 message: §f" + shown)
	p.SendMessage(prefix + "Enter a short key naming the part of the message the pattern should replace, or §e-§7 to match the whole message. Enter §ec§7 to cancel at any time.")
}

// handle 推进状态机一步。输入校验失败时停留在原状态并提示重试
func (s *Edit) handle(p model.Player, line string, c Committer, log logger.Logger) {
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "c") || strings.EqualFold(line, "cancel") {
		p.SendMessage(prefix + "Edit session cancelled.")
		s.shouldDestroy = true
		return
	}

	switch s.mode {
	case ModePatternKey:
		if line != "-" {
			s.patternKey = line
		}
		s.mode = ModePatternValue
		p.SendMessage(prefix + "Enter the pattern. Regular expressions are supported.")

	case ModePatternValue:
		if line == "" {
			p.SendMessage(prefix + "§cThe pattern cannot be empty.§7 Try again.")
			return
		}
		// 设过键时，把输入拼接到默认模式中键首次出现的位置；
		// 未设键时输入整体作为模式
		pat := line
		if s.patternKey != "" {
			pat = strings.Replace(s.beforePattern, regexp.QuoteMeta(s.patternKey), line, 1)
		}
		if _, err := regexp.Compile(pat); err != nil {
			p.SendMessage(prefix + "§cThat pattern does not compile.§7 Try again.")
			log.Debug("模式编译失败", "pattern", pat, "error", err.Error())
			return
		}
		s.beforePattern = pat
		s.mode = ModeReplacement
		p.SendMessage(prefix + "Enter the replacement text, or §e-§7 to keep the message text unchanged.")

	case ModeReplacement:
		if line != "-" {
			s.after = line
		}
		s.mode = ModeDestination
		p.SendMessage(prefix + "Enter the destination surface (" + surfaceList() + "), or §e-§7 to keep the message where it is.")

	case ModeDestination:
		dest := s.beforePlace
		if line != "-" {
			d, ok := message.ParseSurface(line)
			if !ok {
				p.SendMessage(prefix + "§cUnknown surface.§7 Valid surfaces: " + surfaceList() + ". Try again.")
				return
			}
			dest = d
		}
		s.afterPlace = dest
		s.finalize(p, c, log)
	}
}

// finalize 由累积字段构造规则并提交，无论成败都销毁会话
func (s *Edit) finalize(p model.Player, c Committer, log logger.Logger) {
	spec := model.EditSpec{
		Name:        s.patternKey,
		Pattern:     s.beforePattern,
		BeforePlace: s.beforePlace.Symbol(),
		After:       s.after,
		AfterPlace:  s.afterPlace.Symbol(),
	}
	if err := c.CommitEdit(spec); err != nil {
		p.SendMessage(prefix + "§cFailed to save the edit rule.§7 Check the server log.")
		log.Error("提交编辑规则失败", "player", p.Name(), "pattern", spec.Pattern, "error", err.Error())
	} else {
		p.SendMessage(prefix + "Edit rule saved. It applies to new messages immediately.")
		log.Info("编辑规则已提交", "player", p.Name(), "pattern", spec.Pattern, "afterPlace", spec.AfterPlace)
	}
	s.shouldDestroy = true
}

func surfaceList() string {
	var names []string
	for _, sf := range message.Surfaces() {
		names = append(names, sf.Symbol())
	}
	return strings.Join(names, ", ")
}
