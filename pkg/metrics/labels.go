package metrics

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// labelSep separates label names and values when hashing, so that the pair
// sequences ("ab","c") and ("a","bc") hash differently.
var labelSep = []byte{0xff}

// LabelPair is a single label name/value pair.
type LabelPair struct {
	Name  string
	Value string
}

// LabelSet is an immutable, canonically ordered collection of label
// name/value pairs identifying one time series within a family.
//
// Pairs are sorted by label name before hashing, so two sets constructed
// from the same pairs in different order compare equal and share a hash.
// Equality is structural. The zero LabelSet is the empty set.
type LabelSet struct {
	pairs []LabelPair
	hash  uint64
	canon string
}

// newLabelSet builds a LabelSet from label names in canonical (sorted)
// order and the matching values. The slices are copied.
func newLabelSet(sortedNames, values []string) LabelSet {
	pairs := make([]LabelPair, len(sortedNames))
	for i, n := range sortedNames {
		pairs[i] = LabelPair{Name: n, Value: values[i]}
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Name)
		b.WriteString(`="`)
		b.WriteString(p.Value)
		b.WriteByte('"')
	}

	return LabelSet{
		pairs: pairs,
		hash:  hashPairs(pairs),
		canon: b.String(),
	}
}

// Hash returns the precomputed 64-bit hash of the set.
func (ls LabelSet) Hash() uint64 { return ls.hash }

// Len returns the number of pairs in the set.
func (ls LabelSet) Len() int { return len(ls.pairs) }

// Pairs returns a copy of the pairs in canonical order.
func (ls LabelSet) Pairs() []LabelPair {
	out := make([]LabelPair, len(ls.pairs))
	copy(out, ls.pairs)
	return out
}

// String returns the canonical unescaped form, e.g. `method="GET",status="200"`.
// It is the sort key the serializer uses for deterministic series order.
func (ls LabelSet) String() string { return ls.canon }

// Equal reports whether two sets contain the same pairs.
func (ls LabelSet) Equal(other LabelSet) bool {
	if ls.hash != other.hash || len(ls.pairs) != len(other.pairs) {
		return false
	}
	for i, p := range ls.pairs {
		if other.pairs[i] != p {
			return false
		}
	}
	return true
}

// hashPairs computes the xxhash of pairs already in canonical order.
func hashPairs(pairs []LabelPair) uint64 {
	var d xxhash.Digest
	d.Reset()
	for _, p := range pairs {
		_, _ = d.WriteString(p.Name)
		_, _ = d.Write(labelSep)
		_, _ = d.WriteString(p.Value)
		_, _ = d.Write(labelSep)
	}
	return d.Sum64()
}

// validLabelName reports whether name matches [a-zA-Z_][a-zA-Z0-9_]*.
func validLabelName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// canonicalOrder returns the declared label names sorted canonically plus
// the permutation mapping canonical index -> declared index. Families
// precompute this once so per-lookup hashing needs no sort.
func canonicalOrder(declared []string) (sorted []string, perm []int) {
	perm = make([]int, len(declared))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(a, b int) bool {
		return declared[perm[a]] < declared[perm[b]]
	})
	sorted = make([]string, len(declared))
	for i, idx := range perm {
		sorted[i] = declared[idx]
	}
	return sorted, perm
}
