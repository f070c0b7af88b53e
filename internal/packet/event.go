package packet

// Event 宿主出站钩子交给流水线处理的单元
type Event struct {
	packet    *Container
	cancelled bool
	replaced  bool
}

// NewEvent 包装一个待发送的包
func NewEvent(c *Container) *Event {
	return &Event{packet: c}
}

// Packet 当前出站包
func (e *Event) Packet() *Container { return e.packet }

// Cancel 取消发送
func (e *Event) Cancel() { e.cancelled = true }

// Cancelled 是否已被取消
func (e *Event) Cancelled() bool { return e.cancelled }

// SetPacket 用改写后的副本替换出站包
func (e *Event) SetPacket(c *Container) {
	e.packet = c
	e.replaced = true
}

// Replaced 出站包是否已被替换
func (e *Event) Replaced() bool { return e.replaced }
