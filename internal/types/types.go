// Package types implements OtterLang's bidirectional type checker: the
// Type representation, unification, generic instantiation, pattern
// exhaustiveness, and the per-module export tables consumed by
// cross-module checking and by codegen's layout tables.
package types

import (
	"fmt"
	"strings"
)

// Type is any OtterLang type: primitive, tuple, array, dictionary,
// struct, enum, function, or an open type variable used during
// inference. Grounded on the teacher's Type interface shape
// (String/Equals/Substitute), trimmed of AILANG's row-polymorphic
// records and type-class dictionaries since spec.md has no ad-hoc
// polymorphism.
type Type interface {
	String() string
	Equals(Type) bool
	Substitute(Substitution) Type
}

// TVar is an unresolved type variable introduced during inference.
type TVar struct {
	Name string
}

func (t *TVar) String() string { return t.Name }

func (t *TVar) Equals(other Type) bool {
	o, ok := other.(*TVar)
	return ok && t.Name == o.Name
}

func (t *TVar) Substitute(sub Substitution) Type {
	if repl, ok := sub[t.Name]; ok {
		return repl
	}
	return t
}

// TCon is a nullary type constructor: a primitive (int, float, bool,
// string, unit) or a reference to a user-defined struct/enum by name.
type TCon struct {
	Name string
}

func (t *TCon) String() string { return t.Name }

func (t *TCon) Equals(other Type) bool {
	o, ok := other.(*TCon)
	return ok && t.Name == o.Name
}

func (t *TCon) Substitute(Substitution) Type { return t }

var (
	TInt    = &TCon{Name: "int"}
	TFloat  = &TCon{Name: "float"}
	TBool   = &TCon{Name: "bool"}
	TString = &TCon{Name: "string"}
	TUnit   = &TCon{Name: "unit"}
)

// TFunc is a function type: parameter types, a return type, and the
// generic parameter names it closes over (instantiated per call-site).
type TFunc struct {
	Params  []Type
	Return  Type
	Generic []string
}

func (t *TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Return.String())
}

func (t *TFunc) Equals(other Type) bool {
	o, ok := other.(*TFunc)
	if !ok || len(t.Params) != len(o.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equals(o.Params[i]) {
			return false
		}
	}
	return t.Return.Equals(o.Return)
}

func (t *TFunc) Substitute(sub Substitution) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Substitute(sub)
	}
	return &TFunc{Params: params, Return: t.Return.Substitute(sub), Generic: t.Generic}
}

// TArray is OtterLang's `T[]` array type.
type TArray struct {
	Elem Type
}

func (t *TArray) String() string { return t.Elem.String() + "[]" }

func (t *TArray) Equals(other Type) bool {
	o, ok := other.(*TArray)
	return ok && t.Elem.Equals(o.Elem)
}

func (t *TArray) Substitute(sub Substitution) Type {
	return &TArray{Elem: t.Elem.Substitute(sub)}
}

// TMap is OtterLang's `Map<K, V>` dictionary type.
type TMap struct {
	Key   Type
	Value Type
}

func (t *TMap) String() string { return fmt.Sprintf("Map<%s, %s>", t.Key.String(), t.Value.String()) }

func (t *TMap) Equals(other Type) bool {
	o, ok := other.(*TMap)
	return ok && t.Key.Equals(o.Key) && t.Value.Equals(o.Value)
}

func (t *TMap) Substitute(sub Substitution) Type {
	return &TMap{Key: t.Key.Substitute(sub), Value: t.Value.Substitute(sub)}
}

// TTuple is a fixed-arity heterogeneous tuple.
type TTuple struct {
	Elems []Type
}

func (t *TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *TTuple) Equals(other Type) bool {
	o, ok := other.(*TTuple)
	if !ok || len(t.Elems) != len(o.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equals(o.Elems[i]) {
			return false
		}
	}
	return true
}

func (t *TTuple) Substitute(sub Substitution) Type {
	elems := make([]Type, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.Substitute(sub)
	}
	return &TTuple{Elems: elems}
}

// TStruct is an instantiation of a user-defined struct: Name names the
// declaration, Args holds the (possibly empty) generic type arguments
// in declaration order, and Fields is the field name -> type map with
// generics already substituted for this instantiation.
type TStruct struct {
	Name   string
	Args   []Type
	Fields map[string]Type
	Order  []string // field declaration order, for layout/codegen
}

func (t *TStruct) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
}

func (t *TStruct) Equals(other Type) bool {
	o, ok := other.(*TStruct)
	if !ok || t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

func (t *TStruct) Substitute(sub Substitution) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Substitute(sub)
	}
	fields := make(map[string]Type, len(t.Fields))
	for k, v := range t.Fields {
		fields[k] = v.Substitute(sub)
	}
	return &TStruct{Name: t.Name, Args: args, Fields: fields, Order: t.Order}
}

// TEnumVariant is one variant of an enum: either a tuple payload (ordered
// types) or a struct payload (named fields), never both.
type TEnumVariant struct {
	Name          string
	TuplePayload  []Type
	StructPayload map[string]Type
	FieldOrder    []string
}

// TEnum is an instantiation of a user-defined enum, or one of the
// built-in Option<T>/Result<T, E> enums.
type TEnum struct {
	Name     string
	Args     []Type
	Variants map[string]*TEnumVariant
	Order    []string // variant declaration order, for tag assignment
}

func (t *TEnum) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
}

func (t *TEnum) Equals(other Type) bool {
	o, ok := other.(*TEnum)
	if !ok || t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

func (t *TEnum) Substitute(sub Substitution) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Substitute(sub)
	}
	variants := make(map[string]*TEnumVariant, len(t.Variants))
	for name, v := range t.Variants {
		tuple := make([]Type, len(v.TuplePayload))
		for i, p := range v.TuplePayload {
			tuple[i] = p.Substitute(sub)
		}
		var structPayload map[string]Type
		if v.StructPayload != nil {
			structPayload = make(map[string]Type, len(v.StructPayload))
			for k, p := range v.StructPayload {
				structPayload[k] = p.Substitute(sub)
			}
		}
		variants[name] = &TEnumVariant{Name: v.Name, TuplePayload: tuple, StructPayload: structPayload, FieldOrder: v.FieldOrder}
	}
	return &TEnum{Name: t.Name, Args: args, Variants: variants, Order: t.Order}
}

// IsOption reports whether t is the built-in Option<T> enum.
func IsOption(t Type) bool {
	e, ok := t.(*TEnum)
	return ok && e.Name == "Option"
}

// IsResult reports whether t is the built-in Result<T, E> enum.
func IsResult(t Type) bool {
	e, ok := t.(*TEnum)
	return ok && e.Name == "Result"
}

// Opaque represents a foreign handle whose structure the checker does
// not model (values crossing an FFI boundary into a foreign-ecosystem
// import, per spec.md's module-specifier foreign kind).
type Opaque struct {
	Label string
}

func (t *Opaque) String() string { return "opaque<" + t.Label + ">" }

func (t *Opaque) Equals(other Type) bool {
	o, ok := other.(*Opaque)
	return ok && t.Label == o.Label
}

func (t *Opaque) Substitute(Substitution) Type { return t }
