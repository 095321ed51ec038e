// Package clock логические часы клиента для отметок LastModified локальных правок.
package clock

import "sync"

// Lamport логические часы Лампорта. Значение монотонно растет и никогда не
// отстает от уже наблюдавшихся отметок, поэтому локальная правка всегда
// оказывается позже любой известной версии записи.
type Lamport struct {
	counter int64
	mu      sync.Mutex
}

// New создает часы, продолжающие счет с сохраненного значения
func New(start int64) *Lamport {
	return &Lamport{counter: max(start, 0)}
}

// Tick увеличивает счетчик для нового локального события
func (c *Lamport) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter++
	return c.counter
}

// Observe учитывает внешнюю отметку: counter = max(counter, remote) + 1
func (c *Lamport) Observe(remote int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remote > c.counter {
		c.counter = remote
	}
	c.counter++
	return c.counter
}

// Now возвращает текущее значение без изменения
func (c *Lamport) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counter
}
