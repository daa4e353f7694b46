package token

// Value carries a scanned token's payload alongside its Token kind: the
// verbatim source text (Raw), the starting Pos, and a decoded form for the
// kinds that need one (numbers, strings). Grounded on the teacher's
// lang/token.Value, trimmed to the kinds TeaScript's scanner produces.
type Value struct {
	Raw string
	Pos Pos

	Int    int64
	Uint   uint64
	Float  float64
	String string // decoded string literal (escapes resolved)

	// HasInterp reports whether String contains one or more unresolved
	// `%(expr)` interpolation markers (spec §4.6 "in-string evaluation"),
	// left for the parser to split and re-parse as embedded expressions.
	HasInterp bool

	// IsRaw reports whether this string came from a triple-quoted (or
	// longer) raw-string literal, which is not escape-processed.
	IsRaw bool
}
