package describe

import (
	"fmt"
	"sync"
)

// AnonymousVariantCount itself lives in anon_variantcount.go (default,
// 256 entries) or anon_widevariants.go (-tags describe_widevariants, 4096
// entries) — spec.md Open Question (a); decision recorded in DESIGN.md.
// Everything else here is shared between both builds.

// anonymousNameWidth is how many hex digits an anonymous variant name
// carries; it must be wide enough to print AnonymousVariantCount-1 without
// truncation.
var anonymousNameWidth = anonymousNameDigits(AnonymousVariantCount - 1)

func anonymousNameDigits(max int) int {
	digits := 1
	for 1<<(4*digits) <= max {
		digits++
	}
	return digits
}

// anonymousNames is the lazily-built, fixed table of synthetic variant
// names ("_00".."_ff" at width 2, "_000".."_fff" at width 3, and so on)
// used to discriminate a union or a skip-bitmask chain when the downstream
// format gives us nothing but a bare variant index to work with. Mirrors
// anonymous_union.rs's LazyLock-guarded static table.
var anonymousNames = sync.OnceValue(func() []string {
	names := make([]string, AnonymousVariantCount)
	for i := range names {
		names[i] = fmt.Sprintf("_%0*x", anonymousNameWidth, i)
	}
	return names
})

// anonymousVariantName returns the synthetic name for variant ordinal i.
// Panics if i is out of range: callers only ever pass ordinals they
// themselves bounded against AnonymousVariantCount.
func anonymousVariantName(i int) string {
	return anonymousNames()[i]
}

// anonymousUnionTypeName is the synthetic type name every anonymous union
// schema node carries, mirroring anonymous_union.rs's UNION_ENUM_NAME.
const anonymousUnionTypeName = "Union"

// AnonymousUnionTypeName is anonymousUnionTypeName, exported so a
// non-self-describing downstream Serializer/Deserializer (one with no other
// way to tell a real enum variant from a synthetic union/skip-chain
// alternative) can recognize it by name and decide whether that occurrence
// needs a discriminant byte on the wire at all.
const AnonymousUnionTypeName = anonymousUnionTypeName
