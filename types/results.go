package types

import (
	"encoding/json"

	"github.com/juju/errors"
	"github.com/spf13/cast"
)

// Results maps every node that completed to the value its work function returned.
type Results map[*Node]any

func (r Results) Get(n *Node) (any, bool) {
	v, exists := r[n]
	return v, exists
}

func (r Results) GetString(n *Node) (string, bool) {
	v, exists := r.Get(n)
	return cast.ToString(v), exists
}

func (r Results) GetInt(n *Node) (int, bool) {
	v, exists := r.Get(n)
	return cast.ToInt(v), exists
}

func (r Results) GetInt64(n *Node) (int64, bool) {
	v, exists := r.Get(n)
	return cast.ToInt64(v), exists
}

func (r Results) GetBool(n *Node) (bool, bool) {
	v, exists := r.Get(n)
	return cast.ToBool(v), exists
}

func (r Results) GetFloat64(n *Node) (float64, bool) {
	v, exists := r.Get(n)
	return cast.ToFloat64(v), exists
}

func (r Results) GetStruct(n *Node, s any) error {
	v, exists := r.Get(n)
	if !exists {
		return errors.NotFoundf("result of %s", n)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Annotatef(err, "marshal result of %s", n)
	}
	return json.Unmarshal(b, s)
}

func (r Results) Set(n *Node, value any) {
	r[n] = value
}

// Labels returns the results keyed by node label, for display.
func (r Results) Labels() map[string]any {
	m := make(map[string]any, len(r))
	for n, v := range r {
		m[n.Label] = v
	}
	return m
}
