package engine

const seenCap = 1 << 16

// Remember 记下一个出现过的局面哈希，之后走回这个局面的走法会被扣分
func (e *Engine) Remember(hash uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// 不做淘汰，满了直接清空
	if len(e.seen) >= seenCap {
		e.seen = make(map[uint64]int, 1<<10)
	}
	e.seen[hash]++
}

// Seen 这个局面出现过几次
func (e *Engine) Seen(hash uint64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seen[hash]
}

// Forget 开新对局时清空局面记忆
func (e *Engine) Forget() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen = make(map[uint64]int, 1<<10)
}
