package buildconfig

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Properties is an insertion-ordered property map. Names compare
// case-insensitively and the spelling of the first declaration is kept.
// Setting an existing name replaces its value in place.
type Properties struct {
	names  []string
	values []string
	index  map[string]int
}

// NewProperties creates an empty property map.
func NewProperties() *Properties {
	return &Properties{index: make(map[string]int)}
}

// Set assigns value to name; the last write wins.
func (p *Properties) Set(name, value string) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	key := strings.ToLower(name)
	if i, ok := p.index[key]; ok {
		p.values[i] = value
		return
	}
	p.index[key] = len(p.names)
	p.names = append(p.names, name)
	p.values = append(p.values, value)
}

// Get returns the value for name.
func (p *Properties) Get(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	i, ok := p.index[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return p.values[i], true
}

// Value returns the value for name or "".
func (p *Properties) Value(name string) string {
	v, _ := p.Get(name)
	return v
}

// Len returns the number of distinct names.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Names returns property names in declaration order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Each calls fn for every property in declaration order.
func (p *Properties) Each(fn func(name, value string)) {
	if p == nil {
		return
	}
	for i, name := range p.names {
		fn(name, p.values[i])
	}
}

// Merge applies other on top of p, so other's values win on collision.
func (p *Properties) Merge(other *Properties) {
	other.Each(p.Set)
}

// Clone returns an independent copy.
func (p *Properties) Clone() *Properties {
	c := NewProperties()
	c.Merge(p)
	return c
}

// MarshalJSON renders the map as a JSON object in declaration order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	p.Each(func(name, value string) {
		if err != nil {
			return
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		var k, v []byte
		if k, err = json.Marshal(name); err != nil {
			return
		}
		if v, err = json.Marshal(value); err != nil {
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
