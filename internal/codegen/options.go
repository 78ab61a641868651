package codegen

// OptLevel is the optimization aggressiveness requested of a backend.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptDefault
	OptAggressive
)

// Options configures a Build call; both backends accept the same set,
// per spec.md §4.6's shared contract.
type Options struct {
	EmitIR          bool
	OptLevel        OptLevel
	EnableLTO       bool
	EnablePGO       bool
	PGOProfileFile  string
	InlineThreshold int
	Target          TargetTriple
}

// Artifact is the result of a successful Build.
type Artifact struct {
	BinaryPath string
	IRText     string // empty unless Options.EmitIR was set
}
