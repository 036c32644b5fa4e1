package ir

// Feature tags recorded during lowering, in the vocabulary emitters and
// tooling report to users.
const (
	FeatureAnchors         = "anchors"
	FeatureLookahead       = "lookahead"
	FeatureLookbehind      = "lookbehind"
	FeatureNamedGroup      = "named_group"
	FeatureAtomicGroup     = "atomic_group"
	FeaturePossessiveQuant = "possessive_quantifier"
	FeatureBackreference   = "backreference"
	FeatureUnicodeProperty = "unicode_property"
)

// FeatureSet is a deduplicated set of feature tags that remembers first-use
// order, so reports list features in the order the pattern introduces them.
type FeatureSet struct {
	order []string
	seen  map[string]struct{}
}

func NewFeatureSet() *FeatureSet {
	return &FeatureSet{seen: make(map[string]struct{})}
}

// Add records name once; later additions of the same name are ignored.
func (s *FeatureSet) Add(name string) {
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.order = append(s.order, name)
}

// Names returns the recorded tags in first-use order.
func (s *FeatureSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
