package model

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// FindCycles reports the groups of generated adapters that reference each
// other, directly or through other generated adapters. Self references are
// not reported: an adapter always reaches itself through its receiver.
//
// The result is deterministic: members are sorted by reference and groups by
// their first member.
func FindCycles(b *Batch) [][]AdapterRef {
	refs := lo.Map(b.Types, func(t *TypeModel, _ int) AdapterRef { return b.AdapterOf(t) })
	slices.SortFunc(refs, compareRefs)

	index := make(map[AdapterRef]int, len(refs))
	for i, r := range refs {
		index[r] = i
	}

	edges := make([][]int, len(refs))

	for _, t := range b.Types {
		from := index[b.AdapterOf(t)]
		for _, r := range typeRefs(t) {
			if to, ok := index[r]; ok && to != from {
				edges[from] = append(edges[from], to)
			}
		}
	}

	for i := range edges {
		slices.Sort(edges[i])
		edges[i] = slices.Compact(edges[i])
	}

	var res [][]AdapterRef

	for _, comp := range stronglyConnected(len(refs), edges) {
		if len(comp) < 2 {
			continue
		}

		slices.Sort(comp)
		res = append(res, lo.Map(comp, func(i int, _ int) AdapterRef { return refs[i] }))
	}

	slices.SortFunc(res, func(x, y []AdapterRef) int { return compareRefs(x[0], y[0]) })

	return res
}

func compareRefs(x, y AdapterRef) int {
	return strings.Compare(x.String(), y.String())
}

// typeRefs lists every adapter referenced from the accessors of t.
func typeRefs(t *TypeModel) []AdapterRef {
	var res []AdapterRef

	addMapper := func(m *SpecifiedMapper) {
		for _, r := range []*AdapterRef{m.Ref, m.Parser, m.Serializer} {
			if r != nil {
				res = append(res, *r)
			}
		}
	}

	var walk func(n *GenericTypeInfo)
	walk = func(n *GenericTypeInfo) {
		addMapper(&n.Mapper)

		if r := n.Resolver; r != nil {
			for i := range r.Subtypes {
				addMapper(&r.Subtypes[i].Mapper)
			}

			if r.Default != nil {
				addMapper(r.Default)
			}
		}

		for i := range n.Children {
			walk(&n.Children[i])
		}
	}

	for i := range t.Fields {
		f := &t.Fields[i]
		for _, a := range slices.Concat(f.Getters, f.Setters) {
			walk(a.Tree())
		}
	}

	return res
}

// stronglyConnected is Tarjan's algorithm over nodes 0..n-1. Components come
// out in reverse topological order.
func stronglyConnected(n int, edges [][]int) [][]int {
	var (
		counter int
		stack   []int
		res     [][]int
	)

	order := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)

	for i := range order {
		order[i] = -1
	}

	var visit func(v int)
	visit = func(v int) {
		order[v], low[v] = counter, counter
		counter++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range edges[v] {
			switch {
			case order[w] < 0:
				visit(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], order[w])
			}
		}

		if low[v] != order[v] {
			return
		}

		var comp []int

		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false

			comp = append(comp, w)
			if w == v {
				break
			}
		}

		res = append(res, comp)
	}

	for v := range n {
		if order[v] < 0 {
			visit(v)
		}
	}

	return res
}
