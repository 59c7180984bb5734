package buildconfig

// Summary describes the shape of a Hierarchy.
type Summary struct {
	BuildPropsFiles    int            `json:"buildPropsFiles"`
	BuildTargetsFiles  int            `json:"buildTargetsFiles"`
	PackagesPropsFiles int            `json:"packagesPropsFiles"`
	MaxDepth           int            `json:"maxDepth"`
	Roots              []string       `json:"roots"`
	Leaves             []string       `json:"leaves"`
	Depths             map[string]int `json:"depths"`
}

// Summary counts files per kind and measures nesting depth. Leaves are the
// files no other file of their kind inherits from.
func (h *Hierarchy) Summary() Summary {
	s := Summary{Depths: make(map[string]int, len(h.files))}
	for _, f := range h.files {
		switch f.Kind {
		case KindBuildProps:
			s.BuildPropsFiles++
		case KindBuildTargets:
			s.BuildTargetsFiles++
		case KindPackagesProps:
			s.PackagesPropsFiles++
		}

		depth := h.Depth(f)
		s.Depths[f.Path] = depth
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		if depth == 0 {
			s.Roots = append(s.Roots, f.Path)
		}
		if len(h.Children(f)) == 0 {
			s.Leaves = append(s.Leaves, f.Path)
		}
	}
	return s
}
