package ecs

type idSet interface {
	Has(id entityID) bool
	Len() int
	ids() []entityID
}

// intersectIDs returns entity ids present in every set, iterating the smallest.
func intersectIDs(sets ...idSet) []entityID {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	candidates := smallest.ids()
	out := candidates[:0]
	for _, id := range candidates {
		ok := true
		for _, s := range sets {
			if !s.Has(id) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, id)
		}
	}
	return out
}
