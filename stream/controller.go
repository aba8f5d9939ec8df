package stream

import (
	"context"
	"log"
	"sync"
	"time"
)

// Controller that manages animations.
type Controller struct {
	mu                  sync.Mutex
	animations          []Animation
	index               int
	animation           Animation
	nextAnimation       Animation
	animationTime       time.Duration
	frameRate           float64
	transition          float64
	transitionIncrement float64
}

// NewController creates an instance of a Controller that plays the animations in
// order. Finite animations are replaced as soon as they are done; the others after
// animationTime, if it is not zero. Changes cross-fade over transitionSecs.
func NewController(animations []Animation, frameRate float64, transitionSecs float64,
	animationTime time.Duration) *Controller {

	c := new(Controller)
	c.animations = animations
	c.animation = animations[0]
	c.nextAnimation = nil
	c.animationTime = animationTime

	c.frameRate = frameRate
	c.transition = 0.0
	c.transitionIncrement = 1.0
	if transitionSecs > 0 && frameRate > 0 {
		c.transitionIncrement = 1.0 / (c.frameRate * transitionSecs)
	}

	return c
}

// CalculateFrame renders the current animation, blended with the next one during a
// transition.
func (c *Controller) CalculateFrame(runtimeMs int64) *Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	var f *Frame
	if c.nextAnimation != nil {
		f1 := c.animation.CalculateFrame(runtimeMs)
		f2 := c.nextAnimation.CalculateFrame(runtimeMs)
		f = f1.InterpolateFrame(f2, c.transition)
		c.transition += c.transitionIncrement

		if c.transition >= 1.0 {
			c.animation = c.nextAnimation
			c.nextAnimation = nil
			c.transition = 0.0
		}
	} else {
		f = c.animation.CalculateFrame(runtimeMs)
		if finite, ok := c.animation.(Finite); ok && finite.Done() {
			c.cycleAnimation()
		}
	}

	return f
}

// Cycle starts the transition to the next animation.
func (c *Controller) Cycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycleAnimation()
}

func (c *Controller) cycleAnimation() {
	if c.nextAnimation != nil || len(c.animations) < 2 {
		if finite, ok := c.animation.(Finite); ok && finite.Done() {
			finite.Reset()
		}
		return
	}

	c.index = (c.index + 1) % len(c.animations)
	next := c.animations[c.index]
	if finite, ok := next.(Finite); ok {
		finite.Reset()
	}
	if named, ok := next.(interface{ Name() string }); ok {
		log.Printf("Switching to %s", named.Name())
	}
	c.nextAnimation = next
}

// Run causes the Controller to cycle through animations every animationTime until
// the context is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	if c.animationTime <= 0 {
		<-ctx.Done()
		return nil
	}

	publishTimer := time.NewTicker(c.animationTime)
	defer publishTimer.Stop()
	for {
		select {
		case <-publishTimer.C:
			c.Cycle()
		case <-ctx.Done():
			return nil
		}
	}
}
