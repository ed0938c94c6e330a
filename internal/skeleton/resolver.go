package skeleton

import (
	"fmt"

	"cp77-rig-tools/internal/mathutil"
	"cp77-rig-tools/internal/rig"
)

type boneState uint8

const (
	unresolved boneState = iota
	resolving
	resolved
)

// Resolver turns parent-relative bone transforms into model-space matrices.
// Results are memoized per Resolver; create one per skeleton pass.
// Not safe for concurrent use.
type Resolver struct {
	transforms []rig.Transform
	parents    []int
	cache      []mathutil.Mat4
	state      []boneState
	chain      []int
	computed   int
}

// NewResolver validates the array shapes. Parent indexes are checked lazily
// by Resolve.
func NewResolver(transforms []rig.Transform, parents []int) (*Resolver, error) {
	if len(transforms) != len(parents) {
		return nil, fmt.Errorf("skeleton: %d transforms but %d parent indexes", len(transforms), len(parents))
	}
	n := len(transforms)
	return &Resolver{
		transforms: transforms,
		parents:    parents,
		cache:      make([]mathutil.Mat4, n),
		state:      make([]boneState, n),
	}, nil
}

// Len returns the number of bones.
func (r *Resolver) Len() int {
	return len(r.transforms)
}

// Computed returns how many local matrices have been built so far. Each bone
// counts at most once.
func (r *Resolver) Computed() int {
	return r.computed
}

// Resolve returns the model-space matrix of bone index.
//
// The parent chain is walked upward until a root or an already resolved bone,
// then composed top-down: global = parentGlobal × Translation × Rotation × Scale.
func (r *Resolver) Resolve(index int) (mathutil.Mat4, error) {
	n := len(r.transforms)
	if index < 0 || index >= n {
		return mathutil.Mat4{}, &IndexOutOfRangeError{Bone: -1, Index: index, Count: n}
	}
	if r.state[index] == resolved {
		return r.cache[index], nil
	}

	chain := r.chain[:0]
	for i := index; ; {
		if r.state[i] == resolved {
			break
		}
		if r.state[i] == resolving {
			err := &CyclicHierarchyError{Cycle: cycleFrom(chain, i)}
			r.abort(chain)
			return mathutil.Mat4{}, err
		}
		r.state[i] = resolving
		chain = append(chain, i)

		p := r.parents[i]
		if p == -1 {
			break
		}
		if p < 0 || p >= n {
			r.abort(chain)
			return mathutil.Mat4{}, &IndexOutOfRangeError{Bone: i, Index: p, Count: n}
		}
		i = p
	}
	r.chain = chain

	for k := len(chain) - 1; k >= 0; k-- {
		i := chain[k]
		local := r.transforms[i].Matrix()
		if p := r.parents[i]; p == -1 {
			r.cache[i] = local
		} else {
			r.cache[i] = mathutil.Mat4Mul(r.cache[p], local)
		}
		r.state[i] = resolved
		r.computed++
	}

	return r.cache[index], nil
}

// ResolveAll resolves every bone in index order.
func (r *Resolver) ResolveAll() ([]mathutil.Mat4, error) {
	out := make([]mathutil.Mat4, len(r.transforms))
	for i := range out {
		m, err := r.Resolve(i)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// abort clears the in-progress marks so a later query fails the same way.
func (r *Resolver) abort(chain []int) {
	for _, i := range chain {
		r.state[i] = unresolved
	}
	r.chain = chain[:0]
}

func cycleFrom(chain []int, start int) []int {
	for k, i := range chain {
		if i == start {
			return append([]int(nil), chain[k:]...)
		}
	}
	return []int{start}
}

// Resolve is a one-shot helper that resolves a single bone with a fresh cache.
func Resolve(index int, transforms []rig.Transform, parents []int) (mathutil.Mat4, error) {
	r, err := NewResolver(transforms, parents)
	if err != nil {
		return mathutil.Mat4{}, err
	}
	return r.Resolve(index)
}
