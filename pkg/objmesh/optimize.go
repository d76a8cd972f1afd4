package objmesh

import "github.com/cwoffenden/obj2buf/pkg/layout"

// Optimize reorders the vertex buffer by first use in the index
// buffer, so vertex fetches walk memory forward as the triangles are
// drawn. Triangle order is unchanged; a no-op on unindexed meshes.
func (m *Mesh) Optimize() {
	if len(m.Index) == 0 {
		return
	}
	const unmapped = ^uint32(0)
	remap := make([]uint32, len(m.Verts))
	for i := range remap {
		remap[i] = unmapped
	}
	next := uint32(0)
	for i, old := range m.Index {
		if remap[old] == unmapped {
			remap[old] = next
			next++
		}
		m.Index[i] = remap[old]
	}
	reordered := make([]layout.Vertex, len(m.Verts))
	for old, moved := range remap {
		if moved != unmapped {
			reordered[moved] = m.Verts[old]
		}
	}
	m.Verts = reordered[:next]
}
