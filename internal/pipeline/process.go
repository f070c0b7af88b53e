package pipeline

import (
	"fmt"
	"regexp"

	"messageeditor/internal/cache"
	"messageeditor/internal/chat"
	"messageeditor/internal/packet"
	"messageeditor/pkg/message"
	"messageeditor/pkg/model"
)

const (
	hoverText   = "§7Click to start editing this message."
	editCommand = "/message-editor edit "
)

// Process 对单个出站包同步执行完整的改写流程。
// 解码歧义一律原样放行，包字段布局异常则对该包失败返回
func (p *Context) Process(pl model.Player, ev *packet.Event) error {
	// 1. 上游已取消则跳过
	if ev.Cancelled() {
		return nil
	}

	// 2. 快照：先整包复制再动手，早退路径不会泄漏半成品
	work, err := p.registry.Clone(ev.Packet())
	if err != nil {
		return fmt.Errorf("copy packet: %w", err)
	}
	sf, ok := p.surfaces.Identify(work)
	if !ok {
		return nil
	}
	text, ok := p.surfaces.Extract(work, sf)
	if !ok {
		return nil
	}
	originalSurface := sf
	originalText := text
	p.total.Add(1)

	// 3. 查缓存，未命中时按优先级扫描规则表
	if rw, hit := p.caches.GetRewrite(text); hit {
		if rw.Edit != nil {
			p.countMatch(rw.Edit)
		}
		sf, text, ok = p.adoptRewrite(ev, sf, rw)
		if !ok {
			return nil
		}
	} else {
		for _, e := range p.Edits() {
			p.evaluations.Add(1)
			if !e.Matches(sf, text) {
				continue
			}
			after := e.Apply(text, pl, p.expanders)
			rw := cache.Rewrite{Edit: e, After: after}
			p.caches.PutRewrite(originalText, rw)
			p.countMatch(e)
			sf, text, ok = p.adoptRewrite(ev, sf, rw)
			if !ok {
				return nil
			}
			break
		}
	}

	// 4. 格式判定：能解析为组件树即结构化，否则按旧式文本处理
	structured := chat.IsComponent(text)

	// 5. 无论是否改写，都登记解码消息，供交互编辑入口反查
	id := message.ComposeID(sf, text)
	p.caches.PutData(id, message.Data{Surface: sf, Text: text, JSON: structured})

	// 6. 诊断日志，按位置开关
	if p.Analyzing(sf) {
		p.logAnalyze(pl, sf, text, structured, id)
	}

	// 7. 聊天位置按权限和配置附加编辑入口
	if (sf == message.GameChat || sf == message.SystemChat) &&
		p.attach && pl.HasPermission(model.UsePermission) {
		text, structured = chat.Affordances(text, structured, editCommand+id, hoverText)
	}

	// 8. 提交：仅当位置或文本有变化时写回并替换出站包
	if sf != originalSurface {
		if err := p.surfaces.WriteChatType(work, sf); err != nil {
			return fmt.Errorf("rewrite chat type: %w", err)
		}
	}
	if text != originalText {
		if err := p.surfaces.Write(work, sf, text, structured); err != nil {
			return fmt.Errorf("write message: %w", err)
		}
	}
	if sf != originalSurface || text != originalText {
		ev.SetPacket(work)
	}
	return nil
}

// adoptRewrite 采纳改写结果：聊天族位置之间允许重定向，
// 空替换的聊天族消息直接取消发送。返回 ok=false 表示包已取消
func (p *Context) adoptRewrite(ev *packet.Event, sf message.Surface, rw cache.Rewrite) (message.Surface, string, bool) {
	if sf.ChatFamily() && rw.Edit != nil && rw.Edit.AfterPlace().ChatFamily() {
		sf = rw.Edit.AfterPlace()
	}
	if rw.After == "" && sf.ChatFamily() {
		ev.Cancel()
		return sf, "", false
	}
	return sf, rw.After, true
}

func (p *Context) logAnalyze(pl model.Player, sf message.Surface, text string, structured bool, id string) {
	var rendered, plain string
	if structured {
		rendered = regexp.QuoteMeta(text)
		plain = chat.PlainText(text)
	} else {
		rendered = chat.SectionToAmp(text)
		plain = chat.StripColors(text)
	}
	p.log.Info("消息分析",
		"surface", sf.Name(),
		"symbol", sf.Symbol(),
		"player", pl.Name(),
		"message", rendered,
		"plain", plain,
		"json", structured,
		"id", id,
	)
}
