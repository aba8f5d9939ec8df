// Package scene reads timeline descriptors from YAML files.
//
// A scene file looks like this:
//
//	name: sweep
//	loop: true
//	timeline:
//	  - keyframe: all
//	    props: {color: "#000000"}
//	    wait: 500
//	  - - dial: {target: even, from: {brightness: 0}, to: {brightness: 1}, ease: inOut}
//	      wait: 1000
//	    - callback: chime
//	  - keystop: all
//	    props: {color: "#ff8000"}
//
// A list inside the timeline is a parallel group, a mapping is an item.
package scene

import (
	"fmt"
	"io/ioutil"
	"strconv"

	"gopkg.in/yaml.v2"
)

// File is a decoded scene.
type File struct {
	Name     string  `yaml:"name"`
	Loop     bool    `yaml:"loop"`
	Timeline []Entry `yaml:"timeline"`
}

// Entry is either an Item or a parallel group of entries.
type Entry struct {
	Item     *Item
	Parallel []Entry
}

// UnmarshalYAML decodes a sequence as a parallel group and a mapping as an item.
func (e *Entry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	if _, ok := raw.([]interface{}); ok {
		return unmarshal(&e.Parallel)
	}
	e.Item = new(Item)
	return unmarshal(e.Item)
}

// Item is one timeline item. Exactly one of the payload keys (dial, toggle, loop,
// callback, timeline, keyframe, keystop) may be set; an item without one just waits.
type Item struct {
	Wait         float64  `yaml:"wait"`
	Duration     float64  `yaml:"duration"`
	Start        *float64 `yaml:"start"`
	Repeat       Repeat   `yaml:"repeat"`
	RepeatMs     float64  `yaml:"repeatMs"`
	BackAndForth bool     `yaml:"backAndForth"`
	Forward      *bool    `yaml:"forward"`
	Backward     *bool    `yaml:"backward"`

	Dial     *Dial   `yaml:"dial"`
	Toggle   *Toggle `yaml:"toggle"`
	Loop     string  `yaml:"loop"`
	Callback string  `yaml:"callback"`
	Timeline []Entry `yaml:"timeline"`
	Keyframe string  `yaml:"keyframe"`
	Keystop  string  `yaml:"keystop"`

	Props          map[string]interface{} `yaml:"props"`
	Auto           []string               `yaml:"auto"`
	Velocity       map[string]interface{} `yaml:"velocity"`
	VelocityBefore map[string]interface{} `yaml:"velocityBefore"`
	VelocityAfter  map[string]interface{} `yaml:"velocityAfter"`
	Linear         bool                   `yaml:"linear"`

	Show   []string          `yaml:"show"`
	Hide   []string          `yaml:"hide"`
	Add    map[string]string `yaml:"add"`
	Remove map[string]string `yaml:"remove"`
}

// Dial moves the properties of the target from one set of values to another.
type Dial struct {
	Target       string                 `yaml:"target"`
	From         map[string]interface{} `yaml:"from"`
	To           map[string]interface{} `yaml:"to"`
	VelocityFrom map[string]interface{} `yaml:"velocityFrom"`
	VelocityTo   map[string]interface{} `yaml:"velocityTo"`
	Ease         string                 `yaml:"ease"`
}

// Toggle sets the on properties of the target while active and the off ones otherwise.
type Toggle struct {
	Target string                 `yaml:"target"`
	Off    map[string]interface{} `yaml:"off"`
	On     map[string]interface{} `yaml:"on"`
}

// Repeat is a run count or "forever".
type Repeat struct {
	Count   int
	Forever bool
}

// UnmarshalYAML accepts an integer or the word forever.
func (r *Repeat) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "forever" {
		r.Forever = true
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("repeat must be a positive integer or forever, not %q", s)
	}
	r.Count = n
	return nil
}

// Parse decodes a scene.
func Parse(data []byte) (*File, error) {
	f := new(File)
	if err := yaml.UnmarshalStrict(data, f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return f, nil
}

// Load reads and decodes a scene file. A scene without a name is named after its path.
func Load(path string) (*File, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = path
	}
	return f, nil
}
