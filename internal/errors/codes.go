// Package errors centralizes error code definitions for OtterLang. Every
// diagnostic raised anywhere in the pipeline carries one of these codes,
// organized by phase prefix the way the teacher's internal/errors package
// groups PAR###/MOD###/LDR###/TC### constants.
package errors

const (
	// ============================================================
	// Lexical errors (LEX###)
	// ============================================================

	// LEX001 indicates a tab character was used for indentation.
	LEX001 = "LEX001"
	// LEX002 indicates the indent stack did not return to a prior level.
	LEX002 = "LEX002"
	// LEX003 indicates a string literal was not terminated before end-of-line.
	LEX003 = "LEX003"
	// LEX004 indicates a character not recognized by any token rule.
	LEX004 = "LEX004"

	// ============================================================
	// Syntactic errors (PAR###)
	// ============================================================

	// PAR001 indicates an unexpected token was encountered during parsing.
	PAR001 = "PAR001"
	// PAR002 indicates an unexpected end-of-file.
	PAR002 = "PAR002"
	// PAR003 indicates invalid function-head syntax.
	PAR003 = "PAR003"
	// PAR004 indicates invalid struct declaration syntax.
	PAR004 = "PAR004"
	// PAR005 indicates invalid enum declaration syntax.
	PAR005 = "PAR005"
	// PAR006 indicates invalid pattern syntax.
	PAR006 = "PAR006"
	// PAR007 indicates invalid type annotation syntax.
	PAR007 = "PAR007"
	// PAR008 indicates invalid use/import syntax.
	PAR008 = "PAR008"
	// PAR009 indicates invalid interpolated-string syntax.
	PAR009 = "PAR009"

	// ============================================================
	// Module errors (MOD###)
	// ============================================================

	// MOD001 indicates an import specifier could not be resolved to a file.
	MOD001 = "MOD001"
	// MOD002 indicates a cyclic import was detected.
	MOD002 = "MOD002"
	// MOD003 indicates a pub-use re-export named an item absent from the
	// target module's exports.
	MOD003 = "MOD003"
	// MOD004 indicates a duplicate top-level definition within one module.
	MOD004 = "MOD004"
	// MOD005 indicates a self re-export (pub use self.x), which is never
	// reflexive.
	MOD005 = "MOD005"
	// MOD006 indicates an ambiguous import specifier matched more than one
	// candidate path.
	MOD006 = "MOD006"

	// ============================================================
	// Semantic / type-checking errors (TYP###)
	// ============================================================

	// TYP001 indicates a reference to an undefined name.
	TYP001 = "TYP001"
	// TYP002 indicates two types failed to unify.
	TYP002 = "TYP002"
	// TYP003 indicates a call with the wrong number of arguments.
	TYP003 = "TYP003"
	// TYP004 indicates a non-exhaustive match expression.
	TYP004 = "TYP004"
	// TYP005 indicates access to a private (non-pub) item across modules.
	TYP005 = "TYP005"
	// TYP006 indicates a duplicate definition of the same name in one scope.
	TYP006 = "TYP006"
	// TYP007 indicates a literal-only match arm set, which is never
	// exhaustive without a wildcard.
	TYP007 = "TYP007"
	// TYP008 indicates a generic type parameter could not be solved.
	TYP008 = "TYP008"
	// TYP009 (warning) indicates a definition that is never referenced.
	TYP009 = "TYP009"

	// ============================================================
	// Inliner warnings (INL###)
	// ============================================================

	// INL001 (warning) indicates a call site targeted a callee absent from
	// the program (foreign or not yet defined).
	INL001 = "INL001"

	// ============================================================
	// Codegen errors (GEN###)
	// ============================================================

	// GEN001 indicates the program has no main function but one was
	// required for an executable artifact.
	GEN001 = "GEN001"
	// GEN002 indicates a type codegen does not know how to lower.
	GEN002 = "GEN002"
	// GEN003 indicates the linker process failed.
	GEN003 = "GEN003"
	// GEN004 indicates the requested target is misconfigured or unknown.
	GEN004 = "GEN004"

	// ============================================================
	// Build cache errors (CACHE###)
	// ============================================================

	// CACHE001 indicates the cache directory could not be created or
	// written to.
	CACHE001 = "CACHE001"
	// CACHE002 indicates a corrupt cache entry (metadata failed to parse).
	CACHE002 = "CACHE002"

	// ============================================================
	// Runtime errors (RT###)
	// ============================================================

	// RT001 indicates an uncaught panic propagated out of a task.
	RT001 = "RT001"
	// RT002 indicates a division by zero.
	RT002 = "RT002"
	// RT003 indicates an array index out of bounds.
	RT003 = "RT003"
	// RT004 (warning) indicates a join was attempted on an already-joined
	// task.
	RT004 = "RT004"
	// RT005 indicates an allocation failure (out of memory).
	RT005 = "RT005"
)
