package packet

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"messageeditor/pkg/message"
)

var (
	// ErrSlotRange 槽位下标越界
	ErrSlotRange = errors.New("packet: slot index out of range")
	// ErrSchemaMismatch 包字段布局与注册表模式不一致
	ErrSchemaMismatch = errors.New("packet: schema mismatch")
)

// Type 出站包类型
type Type int

const (
	TypeChat Type = iota
	TypeBossBar
	TypeScoreboardObjective
	TypeScoreboardScore
	TypeLoginDisconnect
	TypePlayDisconnect
)

func (t Type) String() string {
	switch t {
	case TypeChat:
		return "chat"
	case TypeBossBar:
		return "boss_bar"
	case TypeScoreboardObjective:
		return "scoreboard_objective"
	case TypeScoreboardScore:
		return "scoreboard_score"
	case TypeLoginDisconnect:
		return "login_disconnect"
	case TypePlayDisconnect:
		return "play_disconnect"
	}
	return "unknown"
}

// EnumClass 枚举字段类别
type EnumClass int

const (
	EnumChatType EnumClass = iota
	EnumBossBarAction
	EnumBossBarColor
	EnumBossBarStyle
	EnumHealthDisplay
	EnumScoreAction
)

// Boss 栏动作枚举值
const (
	BossBarAdd         = 0
	BossBarRemove      = 1
	BossBarUpdateName  = 3
	BossBarUpdateStyle = 4
)

// 计分板目标动作值
const (
	ObjectiveCreate = 0
	ObjectiveRemove = 1
	ObjectiveUpdate = 2
)

// 计分板分数动作枚举值
const (
	ScoreChange = 0
	ScoreRemove = 1
)

// Schema 每种字段类别的槽位数量
type Schema struct {
	Strings    int
	Ints       int
	Bytes      int
	Bools      int
	Floats     int
	Components int
	UUIDs      int
	Enums      map[EnumClass]int
}

// Slots 单一类别的类型化槽位组
type Slots[T any] struct {
	vals []T
}

// Size 槽位数量
func (s *Slots[T]) Size() int { return len(s.vals) }

// Read 读取槽位值
func (s *Slots[T]) Read(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(s.vals) {
		return zero, fmt.Errorf("%w: index %d size %d", ErrSlotRange, i, len(s.vals))
	}
	return s.vals[i], nil
}

// Write 写入槽位值
func (s *Slots[T]) Write(i int, v T) error {
	if i < 0 || i >= len(s.vals) {
		return fmt.Errorf("%w: index %d size %d", ErrSlotRange, i, len(s.vals))
	}
	s.vals[i] = v
	return nil
}

// Container 一个出站包实例的类型化槽位存储。
// 组件槽位保存原始的 JSON 或旧式文本字符串。
type Container struct {
	typ        Type
	strings    Slots[string]
	ints       Slots[int]
	bytes      Slots[byte]
	bools      Slots[bool]
	floats     Slots[float64]
	components Slots[string]
	uuids      Slots[uuid.UUID]
	enums      map[EnumClass]*Slots[int]
}

// Type 包类型
func (c *Container) Type() Type { return c.typ }

func (c *Container) Strings() *Slots[string]    { return &c.strings }
func (c *Container) Ints() *Slots[int]          { return &c.ints }
func (c *Container) Bytes() *Slots[byte]        { return &c.bytes }
func (c *Container) Bools() *Slots[bool]        { return &c.bools }
func (c *Container) Floats() *Slots[float64]    { return &c.floats }
func (c *Container) Components() *Slots[string] { return &c.components }
func (c *Container) UUIDs() *Slots[uuid.UUID]   { return &c.uuids }

// Enums 指定类别的枚举槽位组，未声明的类别返回空组
func (c *Container) Enums(class EnumClass) *Slots[int] {
	if s, ok := c.enums[class]; ok {
		return s
	}
	return &Slots[int]{}
}

// Registry 按协议版本固定的包模式注册表
type Registry struct {
	version message.Version
	schemas map[Type]Schema
}

// NewRegistry 为给定协议版本构建模式注册表
func NewRegistry(v message.Version) *Registry {
	schemas := map[Type]Schema{
		TypeLoginDisconnect: {Components: 1},
		TypePlayDisconnect:  {Components: 1},
		TypeBossBar: {
			UUIDs:      1,
			Components: 1,
			Floats:     1,
			Bools:      3,
			Enums: map[EnumClass]int{
				EnumBossBarAction: 1,
				EnumBossBarColor:  1,
				EnumBossBarStyle:  1,
			},
		},
		TypeScoreboardScore: {
			Strings: 2,
			Ints:    1,
			Enums:   map[EnumClass]int{EnumScoreAction: 1},
		},
	}

	// 聊天包：1.12 起类型判别由字节变为枚举，1.16 起携带发送者 UUID
	chat := Schema{Components: 1}
	if v.AtLeast(message.Version{Major: 1, Minor: 12}) {
		chat.Enums = map[EnumClass]int{EnumChatType: 1}
	} else {
		chat.Bytes = 1
	}
	if v.AtLeast(message.Version{Major: 1, Minor: 16}) {
		chat.UUIDs = 1
	}
	schemas[TypeChat] = chat

	// 计分板目标：1.13 起显示名由旧式字符串变为组件
	objective := Schema{
		Strings: 1,
		Ints:    1,
		Enums:   map[EnumClass]int{EnumHealthDisplay: 1},
	}
	if v.AtLeast(message.Version{Major: 1, Minor: 13}) {
		objective.Components = 1
	} else {
		objective.Strings = 2
	}
	schemas[TypeScoreboardObjective] = objective

	return &Registry{version: v, schemas: schemas}
}

// Version 注册表绑定的协议版本
func (r *Registry) Version() message.Version { return r.version }

// Schema 指定包类型的模式
func (r *Registry) Schema(t Type) Schema { return r.schemas[t] }

// New 按模式创建空包实例
func (r *Registry) New(t Type) *Container {
	sc := r.schemas[t]
	c := &Container{
		typ:        t,
		strings:    Slots[string]{vals: make([]string, sc.Strings)},
		ints:       Slots[int]{vals: make([]int, sc.Ints)},
		bytes:      Slots[byte]{vals: make([]byte, sc.Bytes)},
		bools:      Slots[bool]{vals: make([]bool, sc.Bools)},
		floats:     Slots[float64]{vals: make([]float64, sc.Floats)},
		components: Slots[string]{vals: make([]string, sc.Components)},
		uuids:      Slots[uuid.UUID]{vals: make([]uuid.UUID, sc.UUIDs)},
		enums:      make(map[EnumClass]*Slots[int], len(sc.Enums)),
	}
	for class, n := range sc.Enums {
		c.enums[class] = &Slots[int]{vals: make([]int, n)}
	}
	return c
}

// Clone 将源包逐槽复制到新实例。源包布局与注册表模式不符时
// 返回 ErrSchemaMismatch，避免半拷贝的包流出
func (r *Registry) Clone(src *Container) (*Container, error) {
	sc, ok := r.schemas[src.typ]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %v", ErrSchemaMismatch, src.typ)
	}
	if src.strings.Size() != sc.Strings ||
		src.ints.Size() != sc.Ints ||
		src.bytes.Size() != sc.Bytes ||
		src.bools.Size() != sc.Bools ||
		src.floats.Size() != sc.Floats ||
		src.components.Size() != sc.Components ||
		src.uuids.Size() != sc.UUIDs ||
		len(src.enums) != len(sc.Enums) {
		return nil, fmt.Errorf("%w: %v layout differs from registry schema", ErrSchemaMismatch, src.typ)
	}
	for class, n := range sc.Enums {
		s, ok := src.enums[class]
		if !ok || s.Size() != n {
			return nil, fmt.Errorf("%w: %v enum class %d layout differs", ErrSchemaMismatch, src.typ, class)
		}
	}

	dst := r.New(src.typ)
	copy(dst.strings.vals, src.strings.vals)
	copy(dst.ints.vals, src.ints.vals)
	copy(dst.bytes.vals, src.bytes.vals)
	copy(dst.bools.vals, src.bools.vals)
	copy(dst.floats.vals, src.floats.vals)
	copy(dst.components.vals, src.components.vals)
	copy(dst.uuids.vals, src.uuids.vals)
	for class := range sc.Enums {
		copy(dst.enums[class].vals, src.enums[class].vals)
	}
	return dst, nil
}

// Equal 逐槽比较两个包实例
func Equal(a, b *Container) bool {
	if a.typ != b.typ {
		return false
	}
	if !slotsEqual(a.strings.vals, b.strings.vals) ||
		!slotsEqual(a.ints.vals, b.ints.vals) ||
		!slotsEqual(a.bytes.vals, b.bytes.vals) ||
		!slotsEqual(a.bools.vals, b.bools.vals) ||
		!slotsEqual(a.floats.vals, b.floats.vals) ||
		!slotsEqual(a.components.vals, b.components.vals) ||
		!slotsEqual(a.uuids.vals, b.uuids.vals) {
		return false
	}
	if len(a.enums) != len(b.enums) {
		return false
	}
	for class, s := range a.enums {
		o, ok := b.enums[class]
		if !ok || !slotsEqual(s.vals, o.vals) {
			return false
		}
	}
	return true
}

func slotsEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
