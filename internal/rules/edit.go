package rules

import (
	"fmt"
	"regexp"

	"messageeditor/internal/chat"
	"messageeditor/internal/placeholder"
	"messageeditor/pkg/message"
	"messageeditor/pkg/model"
)

// Edit 不可变的编辑规则：模式 → 替换，可选位置约束。
// 创建后不再修改，新增规则只会追加新条目
type Edit struct {
	name        string
	pattern     *regexp.Regexp
	rawPattern  string
	beforePlace message.Surface
	after       string
	afterPlace  message.Surface
}

// Compile 由序列化形式编译规则
func Compile(spec model.EditSpec) (*Edit, error) {
	re, err := regexCache.Get(spec.Pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", spec.Pattern, err)
	}
	e := &Edit{
		name:       spec.Name,
		pattern:    re,
		rawPattern: spec.Pattern,
		after:      spec.After,
	}
	if spec.BeforePlace != "" {
		s, ok := message.ParseSurface(spec.BeforePlace)
		if !ok {
			return nil, fmt.Errorf("unknown before-place %q", spec.BeforePlace)
		}
		e.beforePlace = s
	}
	if spec.AfterPlace != "" {
		s, ok := message.ParseSurface(spec.AfterPlace)
		if !ok {
			return nil, fmt.Errorf("unknown after-place %q", spec.AfterPlace)
		}
		e.afterPlace = s
	}
	return e, nil
}

// CompileAll 批量编译配置规则，保持顺序
func CompileAll(specs []model.EditSpec) ([]*Edit, error) {
	edits := make([]*Edit, 0, len(specs))
	for i, spec := range specs {
		e, err := Compile(spec)
		if err != nil {
			return nil, fmt.Errorf("edit %d: %w", i, err)
		}
		edits = append(edits, e)
	}
	return edits, nil
}

// Name 规则标签
func (e *Edit) Name() string {
	if e.name != "" {
		return e.name
	}
	return e.rawPattern
}

// AfterPlace 目标位置覆盖，SurfaceNone 表示未设置
func (e *Edit) AfterPlace() message.Surface { return e.afterPlace }

// Matches 文本是否命中本规则。有来源位置约束时须与当前位置一致
func (e *Edit) Matches(place message.Surface, text string) bool {
	if e.beforePlace != message.SurfaceNone && e.beforePlace != place {
		return false
	}
	return e.pattern.MatchString(text)
}

// Apply 对命中文本执行替换：先做正则模板替换，再按固定顺序
// 展开占位符，最后翻译 & 颜色记号。纯函数，不修改共享状态
func (e *Edit) Apply(text string, p model.Player, expanders placeholder.Chain) string {
	out := e.pattern.ReplaceAllString(text, e.after)
	out = expanders.Expand(p, out)
	return chat.TranslateColors(out)
}

// Spec 规则的序列化形式
func (e *Edit) Spec() model.EditSpec {
	spec := model.EditSpec{
		Name:    e.name,
		Pattern: e.rawPattern,
		After:   e.after,
	}
	if e.beforePlace != message.SurfaceNone {
		spec.BeforePlace = e.beforePlace.Symbol()
	}
	if e.afterPlace != message.SurfaceNone {
		spec.AfterPlace = e.afterPlace.Symbol()
	}
	return spec
}
