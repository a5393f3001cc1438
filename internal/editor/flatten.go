package editor

// flatList accumulates flattened descriptors while keeping keys unique.
type flatList struct {
	plugins []*Plugin
	index   map[string]int
}

func newFlatList() *flatList {
	return &flatList{index: make(map[string]int)}
}

// add visits p and its nested plugins in pre-order. A key seen before is
// merged into its first occurrence, which keeps its position and parents.
func (l *flatList) add(p *Plugin, parents []string) {
	entry := p.Clone()
	entry.Plugins = nil
	entry.ParentKeys = append([]string(nil), parents...)

	if i, ok := l.index[p.Key]; ok {
		merged := Merge(l.plugins[i], entry)
		merged.ParentKeys = l.plugins[i].ParentKeys
		l.plugins[i] = merged
	} else {
		l.index[p.Key] = len(l.plugins)
		l.plugins = append(l.plugins, entry)
	}

	childParents := make([]string, len(parents)+1)
	copy(childParents, parents)
	childParents[len(parents)] = p.Key
	for _, child := range p.Plugins {
		l.add(child, childParents)
	}
}

func (l *flatList) lookup(key string) (int, bool) {
	i, ok := l.index[key]
	return i, ok
}

// Flatten walks a forest of descriptors depth-first, parents before
// children, and returns one entry per key. Each entry has its Plugins
// cleared and its ParentKeys set.
func Flatten(roots []*Plugin) []*Plugin {
	l := newFlatList()
	for _, root := range roots {
		l.add(root, nil)
	}
	return l.plugins
}
