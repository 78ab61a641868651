package types

import "fmt"

// Substitution maps a type-variable name to the type it has been solved
// to, accumulated as unification proceeds. Grounded on the teacher's
// unification.go Substitution/Unifier shapes, trimmed of row and kind
// tracking (no row-polymorphic records, no type-class dictionaries).
type Substitution map[string]Type

// ApplySubstitution walks t, replacing every free type variable bound in
// sub. Safe to call repeatedly; a type with no variables bound in sub is
// returned unchanged.
func ApplySubstitution(sub Substitution, t Type) Type {
	if len(sub) == 0 {
		return t
	}
	return t.Substitute(sub)
}

// Unifier solves pairs of types against an accumulating Substitution,
// failing with a descriptive error the caller wraps into a TYP002
// diagnostic.
type Unifier struct{}

// NewUnifier constructs a Unifier.
func NewUnifier() *Unifier { return &Unifier{} }

// Unify attempts to make t1 and t2 equal under an extension of sub,
// returning the extended substitution or an error describing the
// mismatch.
func (u *Unifier) Unify(t1, t2 Type, sub Substitution) (Substitution, error) {
	t1 = ApplySubstitution(sub, t1)
	t2 = ApplySubstitution(sub, t2)

	if t1.Equals(t2) {
		return sub, nil
	}

	if v, ok := t1.(*TVar); ok {
		return u.bind(v, t2, sub)
	}
	if v, ok := t2.(*TVar); ok {
		return u.bind(v, t1, sub)
	}

	switch a := t1.(type) {
	case *TCon:
		return nil, fmt.Errorf("cannot unify %s with %s", a.String(), t2.String())

	case *TFunc:
		b, ok := t2.(*TFunc)
		if !ok || len(a.Params) != len(b.Params) {
			return nil, fmt.Errorf("cannot unify %s with %s", a.String(), t2.String())
		}
		var err error
		for i := range a.Params {
			sub, err = u.Unify(a.Params[i], b.Params[i], sub)
			if err != nil {
				return nil, fmt.Errorf("parameter %d: %w", i, err)
			}
		}
		return u.Unify(a.Return, b.Return, sub)

	case *TArray:
		b, ok := t2.(*TArray)
		if !ok {
			return nil, fmt.Errorf("cannot unify %s with %s", a.String(), t2.String())
		}
		return u.Unify(a.Elem, b.Elem, sub)

	case *TMap:
		b, ok := t2.(*TMap)
		if !ok {
			return nil, fmt.Errorf("cannot unify %s with %s", a.String(), t2.String())
		}
		sub, err := u.Unify(a.Key, b.Key, sub)
		if err != nil {
			return nil, err
		}
		return u.Unify(a.Value, b.Value, sub)

	case *TTuple:
		b, ok := t2.(*TTuple)
		if !ok || len(a.Elems) != len(b.Elems) {
			return nil, fmt.Errorf("cannot unify %s with %s", a.String(), t2.String())
		}
		var err error
		for i := range a.Elems {
			sub, err = u.Unify(a.Elems[i], b.Elems[i], sub)
			if err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
		}
		return sub, nil

	case *TStruct:
		b, ok := t2.(*TStruct)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return nil, fmt.Errorf("cannot unify %s with %s", a.String(), t2.String())
		}
		var err error
		for i := range a.Args {
			sub, err = u.Unify(a.Args[i], b.Args[i], sub)
			if err != nil {
				return nil, fmt.Errorf("generic argument %d of %s: %w", i, a.Name, err)
			}
		}
		return sub, nil

	case *TEnum:
		b, ok := t2.(*TEnum)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return nil, fmt.Errorf("cannot unify %s with %s", a.String(), t2.String())
		}
		var err error
		for i := range a.Args {
			sub, err = u.Unify(a.Args[i], b.Args[i], sub)
			if err != nil {
				return nil, fmt.Errorf("generic argument %d of %s: %w", i, a.Name, err)
			}
		}
		return sub, nil

	case *Opaque:
		return nil, fmt.Errorf("cannot unify foreign handle %s with %s", a.String(), t2.String())

	default:
		return nil, fmt.Errorf("cannot unify %s with %s", t1.String(), t2.String())
	}
}

// bind records v := t in sub after an occurs check, preventing infinite
// types like `T = T[]`.
func (u *Unifier) bind(v *TVar, t Type, sub Substitution) (Substitution, error) {
	if occurs(v.Name, t) {
		return nil, fmt.Errorf("occurs check failed: %s occurs in %s", v.Name, t.String())
	}
	next := make(Substitution, len(sub)+1)
	for k, val := range sub {
		next[k] = val
	}
	next[v.Name] = t
	return next, nil
}

func occurs(name string, t Type) bool {
	switch x := t.(type) {
	case *TVar:
		return x.Name == name
	case *TFunc:
		for _, p := range x.Params {
			if occurs(name, p) {
				return true
			}
		}
		return occurs(name, x.Return)
	case *TArray:
		return occurs(name, x.Elem)
	case *TMap:
		return occurs(name, x.Key) || occurs(name, x.Value)
	case *TTuple:
		for _, e := range x.Elems {
			if occurs(name, e) {
				return true
			}
		}
		return false
	case *TStruct:
		for _, a := range x.Args {
			if occurs(name, a) {
				return true
			}
		}
		return false
	case *TEnum:
		for _, a := range x.Args {
			if occurs(name, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

var freshCounter int

// Fresh returns a new type variable distinguishable from every other one
// generated so far in this process. The checker resets freshCounter per
// compilation via ResetFresh so error messages stay small and readable.
func Fresh() *TVar {
	freshCounter++
	return &TVar{Name: fmt.Sprintf("t%d", freshCounter)}
}

// ResetFresh restarts the fresh-variable counter; called once per
// checked module so generated variable names don't grow unboundedly
// across a large workspace.
func ResetFresh() { freshCounter = 0 }
