package timeline

import (
	"github.com/matt-g-everett/ledtl/prop"
)

// Entry is an element of a timeline descriptor: an Item or a Parallel group.
type Entry interface {
	entry()
}

// Sequence lists entries that run one after another. Each blocking item delays the
// entries that follow it. A Sequence nested in a Parallel group runs sequentially
// within the group.
type Sequence []Entry

// Parallel starts all of its entries at the same time. The group blocks until its
// longest blocking entry is done.
type Parallel []Entry

// Direction selects which scrubbing directions an item reacts to.
type Direction int

const (
	Both Direction = iota
	ForwardOnly
	BackwardOnly
)

func (d Direction) forward() bool  { return d != BackwardOnly }
func (d Direction) backward() bool { return d != ForwardOnly }

// Item is a leaf of the descriptor.
//
// Wait is how long the item blocks the following entries. Duration is the length of one
// run and defaults to Wait; a zero Duration means "same as Wait". An item with only a
// Duration does not block. Start places the item at an absolute time instead of at the
// current cursor.
type Item struct {
	Payload Payload

	Wait         float64
	Duration     float64
	Start        *float64
	Repeat       int
	Forever      bool
	RepeatMs     float64
	BackAndForth bool
	Direction    Direction

	Side *prop.Side
}

func (Item) entry()     {}
func (Sequence) entry() {}
func (Parallel) entry() {}

// At returns a pointer to v, for Item.Start.
func At(v float64) *float64 {
	return &v
}

// Payload is what an item does while it is on the timeline.
type Payload interface {
	kind() Kind
}

// Kind names a payload variant.
type Kind int

const (
	KindWait Kind = iota
	KindDial
	KindToggle
	KindLoop
	KindSubTimeline
	KindCallback
	KindKeyframe
	KindKeystop
)

var kindNames = [...]string{"wait", "dial", "toggle", "loop", "timeline", "callback", "keyframe", "keystop"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Wait only takes up time.
type Wait struct{}

// Dial is moved from 0 to 1 over each run.
type Dial struct {
	Fn prop.DialFunc
}

// Toggle is switched on while the item is active and off otherwise.
type Toggle struct {
	Fn prop.ToggleFunc
}

// Loop is called with the time since the item started while it is active.
type Loop struct {
	Fn func(elapsed float64)
}

// SubTimeline nests another timeline. Either Timeline or Entries is set; Entries are
// built with the parent's environment.
type SubTimeline struct {
	Timeline *Timeline
	Entries  Sequence
}

// Callback is called whenever its time is passed, with the time elapsed since then.
type Callback struct {
	Fn func(sinceStart float64)
}

// KeyframeOpen records the value of properties of the selected targets at this point
// of the timeline. Values between keyframes are interpolated smoothly.
//
// Auto lists properties whose current value is used. Velocity sets the velocity at the
// keyframe on both sides; VelocityBefore and VelocityAfter override one side. Velocities
// are in property units per unit of timeline time. Linear makes the segment that starts
// here a straight line.
type KeyframeOpen struct {
	Selector       string
	Props          map[string]prop.Value
	Auto           []string
	Velocity       map[string]prop.Value
	VelocityBefore map[string]prop.Value
	VelocityAfter  map[string]prop.Value
	Linear         bool
}

// KeyframeStop is the last keyframe of a track. It arrives with zero velocity unless
// Velocity says otherwise.
type KeyframeStop struct {
	Selector string
	Props    map[string]prop.Value
	Auto     []string
	Velocity map[string]prop.Value
}

func (Wait) kind() Kind         { return KindWait }
func (Dial) kind() Kind         { return KindDial }
func (Toggle) kind() Kind       { return KindToggle }
func (Loop) kind() Kind         { return KindLoop }
func (SubTimeline) kind() Kind  { return KindSubTimeline }
func (Callback) kind() Kind     { return KindCallback }
func (KeyframeOpen) kind() Kind { return KindKeyframe }
func (KeyframeStop) kind() Kind { return KindKeystop }
