package compact

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Case-insensitive string keys are driven by a single fold function so
// that equality, ordering, and hashing can never disagree:
//
//	foldEqual(a, b)  ⇔  foldString(a) == foldString(b)
//	foldEqual(a, b)  ⇒  foldSum64(a) == foldSum64(b)

func foldRune(r rune) rune {
	return unicode.ToLower(unicode.ToUpper(r))
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// foldString returns the canonical folded form of s. The result is only
// used as an internal storage key; callers always observe the spelling
// they stored. strings.Map returns s unchanged when no rune folds.
func foldString(s string) string {
	return strings.Map(foldRune, s)
}

// foldEqual reports whether a and b are equal ignoring case. It walks
// both strings without allocating.
func foldEqual(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if ca, cb := a[0], b[0]; ca < utf8.RuneSelf && cb < utf8.RuneSelf {
			if lowerASCII(ca) != lowerASCII(cb) {
				return false
			}
			a, b = a[1:], b[1:]
			continue
		}
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra != rb && foldRune(ra) != foldRune(rb) {
			return false
		}
		a, b = a[na:], b[nb:]
	}
	return len(a) == len(b)
}

// foldCompare orders a and b by their folded forms, byte-wise over the
// folded rune encoding. It agrees with foldEqual on equality.
func foldCompare(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		var ra, rb rune
		var na, nb int
		if ca := a[0]; ca < utf8.RuneSelf {
			ra, na = rune(lowerASCII(ca)), 1
		} else {
			ra, na = utf8.DecodeRuneInString(a)
			ra = foldRune(ra)
		}
		if cb := b[0]; cb < utf8.RuneSelf {
			rb, nb = rune(lowerASCII(cb)), 1
		} else {
			rb, nb = utf8.DecodeRuneInString(b)
			rb = foldRune(rb)
		}
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		a, b = a[na:], b[nb:]
	}
	switch {
	case len(a) > 0:
		return 1
	case len(b) > 0:
		return -1
	default:
		return 0
	}
}

// foldSum64 hashes the folded form of s without building it. Equivalent
// to xxhash.Sum64String(foldString(s)).
func foldSum64(s string) uint64 {
	var d xxhash.Digest
	d.Reset()
	var chunk [64]byte
	n := 0
	flush := func() {
		if n > 0 {
			_, _ = d.Write(chunk[:n])
			n = 0
		}
	}
	for i := 0; i < len(s); {
		if c := s[i]; c < utf8.RuneSelf {
			if n == len(chunk) {
				flush()
			}
			chunk[n] = lowerASCII(c)
			n++
			i++
			continue
		}
		r, w := utf8.DecodeRuneInString(s[i:])
		if n+utf8.UTFMax > len(chunk) {
			flush()
		}
		n += utf8.EncodeRune(chunk[n:], foldRune(r))
		i += w
	}
	flush()
	return d.Sum64()
}
