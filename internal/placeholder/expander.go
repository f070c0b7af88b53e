package placeholder

import "messageeditor/pkg/model"

// Expander 占位符展开协作方，由宿主在启动时注入
type Expander interface {
	Name() string
	Expand(p model.Player, text string) string
}

// Chain 按注册顺序依次应用的展开链，缺省即空链
type Chain []Expander

// Expand 依次展开，顺序固定
func (c Chain) Expand(p model.Player, text string) string {
	for _, e := range c {
		text = e.Expand(p, text)
	}
	return text
}

// Func 函数适配器，便于测试和简单宿主
type Func struct {
	ExpanderName string
	Fn           func(p model.Player, text string) string
}

func (f Func) Name() string { return f.ExpanderName }

func (f Func) Expand(p model.Player, text string) string { return f.Fn(p, text) }
