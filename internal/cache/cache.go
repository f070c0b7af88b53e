package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"messageeditor/internal/rules"
	"messageeditor/pkg/message"
)

// DefaultTTL 默认的最近访问过期时长
const DefaultTTL = 15 * time.Minute

// Rewrite 改写缓存条目：命中的规则及改写结果
type Rewrite struct {
	Edit  *rules.Edit
	After string
}

// Caches 两个相互独立的消息缓存命名空间，均为最近访问滑动过期：
// 改写缓存以原始文本为键，数据缓存以消息标识为键
type Caches struct {
	rewrites *ttlcache.Cache[string, Rewrite]
	data     *ttlcache.Cache[string, message.Data]
}

// New 创建缓存，ttl 不为正时使用默认值
func New(ttl time.Duration) *Caches {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Caches{
		rewrites: ttlcache.New[string, Rewrite](
			ttlcache.WithTTL[string, Rewrite](ttl),
		),
		data: ttlcache.New[string, message.Data](
			ttlcache.WithTTL[string, message.Data](ttl),
		),
	}
}

// Start 启动后台过期清扫
func (c *Caches) Start() {
	go c.rewrites.Start()
	go c.data.Start()
}

// Stop 停止后台清扫
func (c *Caches) Stop() {
	c.rewrites.Stop()
	c.data.Stop()
}

// GetRewrite 查询改写缓存，命中会刷新访问时间
func (c *Caches) GetRewrite(text string) (Rewrite, bool) {
	item := c.rewrites.Get(text)
	if item == nil {
		return Rewrite{}, false
	}
	return item.Value(), true
}

// PutRewrite 写入改写缓存
func (c *Caches) PutRewrite(text string, r Rewrite) {
	c.rewrites.Set(text, r, ttlcache.DefaultTTL)
}

// InvalidateRewrite 移除单条改写缓存
func (c *Caches) InvalidateRewrite(text string) {
	c.rewrites.Delete(text)
}

// InvalidateRewrites 清空改写缓存
func (c *Caches) InvalidateRewrites() {
	c.rewrites.DeleteAll()
}

// RewriteKeys 改写缓存键的只读快照
func (c *Caches) RewriteKeys() []string {
	return c.rewrites.Keys()
}

// GetData 查询解码消息缓存
func (c *Caches) GetData(id string) (message.Data, bool) {
	item := c.data.Get(id)
	if item == nil {
		return message.Data{}, false
	}
	return item.Value(), true
}

// PutData 写入解码消息缓存
func (c *Caches) PutData(id string, d message.Data) {
	c.data.Set(id, d, ttlcache.DefaultTTL)
}

// InvalidateData 移除单条解码消息缓存
func (c *Caches) InvalidateData(id string) {
	c.data.Delete(id)
}

// InvalidateAllData 清空解码消息缓存
func (c *Caches) InvalidateAllData() {
	c.data.DeleteAll()
}

// DataKeys 解码消息缓存键的只读快照
func (c *Caches) DataKeys() []string {
	return c.data.Keys()
}
