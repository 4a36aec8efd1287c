package mesh

import "github.com/chazu/meshkernel/pkg/geom"

// ClassifyEdgeListConnectivity counts edge endpoints per vertex in a
// single pass and reports the list's shape (spec.md §4.2).
func (t *Topology) ClassifyEdgeListConnectivity(edges []EdgeHandle) Connectivity {
	if len(edges) == 0 {
		return ConnNone
	}
	degree := make(map[VertexHandle]int, len(edges)*2)
	for _, e := range edges {
		a, b := t.VerticesOfEdge(e)
		degree[a]++
		degree[b]++
	}
	sawOne, sawTwo, sawOther := false, false, false
	for _, d := range degree {
		switch d {
		case 1:
			sawOne = true
		case 2:
			sawTwo = true
		default:
			sawOther = true
		}
	}
	switch {
	case sawOther || (sawOne && len(degree) == 0):
		return ConnMixed
	case sawOne && !sawTwo:
		return ConnList
	case sawTwo && !sawOne:
		return ConnLoop
	case sawOne && sawTwo:
		return ConnList
	default:
		return ConnMixed
	}
}

// FindEdgeRing greedily walks alternating twin∘opposite_in_face starting
// from e, stopping at a boundary (no opposite face) or a repeat.
func (t *Topology) FindEdgeRing(e EdgeHandle) []EdgeHandle {
	h, _ := t.HalfEdgesOf(e)
	visited := map[EdgeHandle]bool{e: true}
	ring := []EdgeHandle{e}

	walk := func(start HalfEdgeHandle) {
		cur := start
		for i := 0; i < maxFanSteps; i++ {
			f := t.FaceOf(cur)
			if f.IsNil() {
				return
			}
			// opposite_in_face: for a quad-like face, the edge across
			// from cur is two steps ahead in the loop.
			opp := t.Next(t.Next(cur))
			if t.Next(t.Next(opp)) != cur {
				return // not a quad-like face; ring ends here
			}
			next := t.Twin(opp)
			fe := t.FullEdge(next)
			if visited[fe] {
				return
			}
			visited[fe] = true
			ring = append(ring, fe)
			cur = next
		}
	}
	walk(h)
	walk(t.Twin(h))
	return ring
}

// FindEdgeLoop greedily walks picking, at each vertex, the edge whose
// direction best continues the incoming direction (straightest
// continuation, dot-product tie-break), bounded by stepLimit.
func (t *Topology) FindEdgeLoop(e EdgeHandle, stepLimit int, pos func(VertexHandle) geom.Vec3) []EdgeHandle {
	if stepLimit <= 0 {
		stepLimit = maxFanSteps
	}
	visited := map[EdgeHandle]bool{e: true}
	loop := []EdgeHandle{e}

	extend := func(from VertexHandle, dir geom.Vec3) {
		cur := from
		curDir := dir
		for i := 0; i < stepLimit; i++ {
			var best EdgeHandle
			var bestDot float32 = -2
			for _, h := range t.OutHalfEdges(cur) {
				fe := t.FullEdge(h)
				if visited[fe] {
					continue
				}
				other := t.EndVertex(h)
				d := pos(other).Sub(pos(cur))
				if d.Length() < 1e-12 {
					continue
				}
				dn := d.Normalize()
				dot := dn.Dot(curDir)
				if dot > bestDot {
					bestDot = dot
					best = fe
				}
			}
			if best == 0 || bestDot < 0 {
				return
			}
			visited[best] = true
			loop = append(loop, best)
			a, b := t.VerticesOfEdge(best)
			next := a
			if a == cur {
				next = b
			}
			curDir = pos(next).Sub(pos(cur)).Normalize()
			cur = next
		}
	}

	a, b := t.VerticesOfEdge(e)
	extend(b, pos(b).Sub(pos(a)).Normalize())
	extend(a, pos(a).Sub(pos(b)).Normalize())
	return loop
}

// FindEdgeIslands partitions edges into disjoint-set groups sharing a
// vertex (union-find by vertex adjacency).
func (t *Topology) FindEdgeIslands(edges []EdgeHandle) [][]EdgeHandle {
	parent := map[VertexHandle]VertexHandle{}
	var find func(VertexHandle) VertexHandle
	find = func(v VertexHandle) VertexHandle {
		if p, ok := parent[v]; ok && p != v {
			parent[v] = find(p)
			return parent[v]
		}
		parent[v] = v
		return v
	}
	union := func(a, b VertexHandle) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for _, e := range edges {
		a, b := t.VerticesOfEdge(e)
		find(a)
		find(b)
		union(a, b)
	}
	groups := map[VertexHandle][]EdgeHandle{}
	for _, e := range edges {
		a, _ := t.VerticesOfEdge(e)
		root := find(a)
		groups[root] = append(groups[root], e)
	}
	var islands [][]EdgeHandle
	for _, g := range groups {
		islands = append(islands, g)
	}
	return islands
}

// EdgeRib is the pair of perpendicular edges flanking a ring/loop edge.
type EdgeRib struct {
	Edge  EdgeHandle
	Left  EdgeHandle
	Right EdgeHandle
}

// FindEdgeRibs computes, for each edge in a loop/ring, one perpendicular
// edge on each side: Left is the edge following e's canonical half-edge in
// its face, Right the edge following its twin in the twin's face (zero on
// an open side).
func (t *Topology) FindEdgeRibs(edges []EdgeHandle) []EdgeRib {
	ribs := make([]EdgeRib, 0, len(edges))
	for _, e := range edges {
		h, tw := t.HalfEdgesOf(e)
		rib := EdgeRib{Edge: e}
		if f := t.FaceOf(h); !f.IsNil() {
			rib.Left = t.FullEdge(t.Next(h))
		}
		if f := t.FaceOf(tw); !f.IsNil() {
			rib.Right = t.FullEdge(t.Next(tw))
		}
		ribs = append(ribs, rib)
	}
	return ribs
}
