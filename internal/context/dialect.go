package context

// Dialect configures the small set of grammar/semantic toggles that select a
// TeaScript language variant (spec §4.6, glossary "Dialect"). The default
// zero-value-free struct below reproduces the official TeaScript dialect's
// defaults, taken from original_source/include/teascript/Dialect.hpp, which
// the distilled spec.md does not restate numerically.
type Dialect struct {
	// AutoDefineUnknownIdentifiers enables a non-official mode where
	// assigning to an unknown identifier implicitly defines it rather than
	// failing with unknown_identifier. Default false (official dialect).
	AutoDefineUnknownIdentifiers bool `env:"TEASCRIPT_AUTO_DEFINE_UNKNOWN" envDefault:"false"`

	// UndefineUnknownIdentifiersAllowed: undef of a name that does not exist
	// is a silent no-op rather than an eval error. Default true.
	UndefineUnknownIdentifiersAllowed bool `env:"TEASCRIPT_UNDEF_UNKNOWN_ALLOWED" envDefault:"true"`

	// DeclareIdentifiersWithoutAssignAllowed: `def x` without `:= expr`.
	// Default false; marked experimental/unsupported upstream. The parser
	// does not consult it and always requires `:=` or `@=` after the name.
	DeclareIdentifiersWithoutAssignAllowed bool `env:"TEASCRIPT_DECLARE_WITHOUT_ASSIGN" envDefault:"false"`

	// ParametersAreDefaultConst: function parameters are const unless
	// explicitly declared `def`. Default true.
	ParametersAreDefaultConst bool `env:"TEASCRIPT_PARAMS_DEFAULT_CONST" envDefault:"true"`

	// ParametersAreDefaultShared: function parameters are shared (as if
	// bound with `@=`) unless the call site passes an unshared value.
	// Default true.
	ParametersAreDefaultShared bool `env:"TEASCRIPT_PARAMS_DEFAULT_SHARED" envDefault:"true"`

	// SharedParametersAreDefaultAuto: an explicitly shared parameter without
	// an explicit def/const modifier takes on the same const-ness as its
	// origin value. Default true.
	SharedParametersAreDefaultAuto bool `env:"TEASCRIPT_SHARED_PARAMS_DEFAULT_AUTO" envDefault:"true"`
}

// DefaultDialect returns the official TeaScript dialect.
func DefaultDialect() Dialect {
	return Dialect{
		AutoDefineUnknownIdentifiers:            false,
		UndefineUnknownIdentifiersAllowed:        true,
		DeclareIdentifiersWithoutAssignAllowed:   false,
		ParametersAreDefaultConst:                true,
		ParametersAreDefaultShared:               true,
		SharedParametersAreDefaultAuto:           true,
	}
}
