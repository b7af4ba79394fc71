package ecs

// intersect returns the slot ids present in every set, iterating the smallest.
func intersect(sets []*SparseSet) []entityID {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	out := make([]entityID, 0, smallest.Len())
outer:
	for _, id := range smallest.ids() {
		for _, s := range sets {
			if !s.Has(id) {
				continue outer
			}
		}
		out = append(out, id)
	}
	return out
}
