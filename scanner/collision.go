package scanner

import "sort"

// Collision is a set of sources that map to the same thumbnail path
type Collision struct {
	Dest    string
	Sources []string
}

// FindCollisions groups sources by destination and returns every
// destination claimed by more than one source, sorted by destination.
// Sources whose destination cannot be computed are ignored here; their
// jobs fail on their own.
func FindCollisions(sources []string, dest func(string) (string, error)) []Collision {
	byDest := make(map[string][]string)
	for _, src := range sources {
		d, err := dest(src)
		if err != nil {
			continue
		}
		byDest[d] = append(byDest[d], src)
	}

	var out []Collision
	for d, srcs := range byDest {
		if len(srcs) < 2 {
			continue
		}
		sort.Strings(srcs)
		out = append(out, Collision{Dest: d, Sources: srcs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dest < out[j].Dest })
	return out
}
