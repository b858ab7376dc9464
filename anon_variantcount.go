//go:build !describe_widevariants

package describe

// AnonymousVariantCount bounds how many synthetic union-alternative and
// skip-bitmask-chain variants a Schema can address without running into
// TooManyUnionVariants. This is the default, 256-entry table; build with
// -tags describe_widevariants for the 4096-entry table in
// anon_widevariants.go instead (spec.md Open Question (a); decision
// recorded in DESIGN.md).
const AnonymousVariantCount = 256
