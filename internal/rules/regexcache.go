package rules

import (
	"regexp"
	"sync"
)

// regexCache 进程级正则编译缓存
var regexCache = &compileCache{res: make(map[string]*regexp.Regexp)}

type compileCache struct {
	mu  sync.RWMutex
	res map[string]*regexp.Regexp
}

// Get 返回已编译正则，必要时编译并缓存
func (c *compileCache) Get(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.res[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.res[pattern] = re
	c.mu.Unlock()
	return re, nil
}
