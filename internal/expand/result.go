package expand

// ExpandedResult accumulates everything a single token function or a whole
// field expansion produced: env var names touched, files and globs
// resolved to workspace-relative paths, the originating token text (if
// any), and a scalar value to splice back into the field being expanded.
type ExpandedResult struct {
	Env   []string
	Files []string
	Globs []string
	Token string
	Value string
}

// merge folds other into r, concatenating the accumulating slices. Token
// and Value are left to the caller since they are meaningful only for the
// top-level result of a single function call.
func (r *ExpandedResult) merge(other *ExpandedResult) {
	if other == nil {
		return
	}
	r.Env = append(r.Env, other.Env...)
	r.Files = append(r.Files, other.Files...)
	r.Globs = append(r.Globs, other.Globs...)
}
