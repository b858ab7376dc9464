//go:build describe_widevariants

package describe

// AnonymousVariantCount is the -tags describe_widevariants alternative to
// the default 256-entry table in anon_variantcount.go: a Schema that mixes
// more than 256 distinct shapes into one Union or skip-bitmask chain needs
// this build instead of the default (spec.md Open Question (a); decision
// recorded in DESIGN.md).
const AnonymousVariantCount = 4096
