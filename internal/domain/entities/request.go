package entities

// Translation pairs a source phrase with its target-locale text.
type Translation struct {
	Source string
	Target string
}

// UpdateRequest is an ordered set of translations for one target locale.
type UpdateRequest struct {
	Name         string
	Description  string
	Locale       string
	Policy       string // empty = use the configured policy
	Translations []Translation
}

// NewUpdateRequest builds a request from pairs. A phrase that appears more
// than once keeps its first position and its last value.
func NewUpdateRequest(name, locale string, pairs []Translation) UpdateRequest {
	index := make(map[string]int, len(pairs))
	out := make([]Translation, 0, len(pairs))
	for _, p := range pairs {
		if i, ok := index[p.Source]; ok {
			out[i].Target = p.Target
			continue
		}
		index[p.Source] = len(out)
		out = append(out, p)
	}
	return UpdateRequest{
		Name:         name,
		Locale:       locale,
		Translations: out,
	}
}

// Len returns the number of distinct phrases requested.
func (r UpdateRequest) Len() int {
	return len(r.Translations)
}
