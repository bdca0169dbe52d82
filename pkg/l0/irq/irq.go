// Package irq emulates the interrupt model of a single core
// microcontroller.
//
// Handlers never preempt each other: raising an interrupt while another
// handler runs defers it until the first one returns. The main loop can
// mask all interrupts for a short critical section, during which raised
// interrupts are deferred as well.
package irq

import "sync"

// Handler is the body of an interrupt service routine.
// It must be short and must never block.
type Handler func()

// Controller serializes interrupt handlers and provides the global
// interrupt mask.
type Controller struct {
	mask sync.Mutex
}

// Raise services h as an interrupt. It waits while interrupts are masked
// or another handler is running.
func (c *Controller) Raise(h Handler) {
	c.mask.Lock()
	h()
	c.mask.Unlock()
}

// Disable masks interrupts. Must be paired with Enable.
func (c *Controller) Disable() {
	c.mask.Lock()
}

// Enable unmasks interrupts.
func (c *Controller) Enable() {
	c.mask.Unlock()
}

// Critical runs fn with interrupts masked.
func (c *Controller) Critical(fn func()) {
	c.Disable()
	defer c.Enable()
	fn()
}
