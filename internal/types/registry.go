package types

import (
	"fmt"

	"github.com/otterlang/otter/internal/ast"
)

// Registry collects one module's struct, enum, and type-alias
// declarations, plus the two built-in generic enums Option<T> and
// Result<T, E>, and resolves surface ast.Type nodes against them.
// Grounded on the teacher's kinds.go/instances.go pairing of a
// declaration table with a resolver, trimmed of type-class instances.
type Registry struct {
	Structs map[string]*ast.StructDecl
	Enums   map[string]*ast.EnumDecl
	Aliases map[string]*ast.TypeAliasDecl
}

// NewRegistry creates a Registry pre-populated with Option and Result.
func NewRegistry() *Registry {
	r := &Registry{
		Structs: make(map[string]*ast.StructDecl),
		Enums:   make(map[string]*ast.EnumDecl),
		Aliases: make(map[string]*ast.TypeAliasDecl),
	}
	r.registerBuiltinEnums()
	return r
}

func (r *Registry) registerBuiltinEnums() {
	r.Enums["Option"] = &ast.EnumDecl{
		Name:     "Option",
		Pub:      true,
		Generics: []string{"T"},
		Variants: []ast.EnumVariant{
			{Name: "Some", TuplePayload: []ast.Type{ast.SimpleType{Name: "T"}}},
			{Name: "None"},
		},
	}
	r.Enums["Result"] = &ast.EnumDecl{
		Name:     "Result",
		Pub:      true,
		Generics: []string{"T", "E"},
		Variants: []ast.EnumVariant{
			{Name: "Ok", TuplePayload: []ast.Type{ast.SimpleType{Name: "T"}}},
			{Name: "Err", TuplePayload: []ast.Type{ast.SimpleType{Name: "E"}}},
		},
	}
}

// Collect walks prog's top-level declarations into the registry. Called
// once for the module under check and once per imported dependency so
// cross-module member access can resolve struct/enum types declared in
// another file, per spec.md §4.4's cross-module symbol pre-population.
func (r *Registry) Collect(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.StructDecl:
			r.Structs[s.Name] = s
		case *ast.EnumDecl:
			r.Enums[s.Name] = s
		case *ast.TypeAliasDecl:
			r.Aliases[s.Name] = s
		}
	}
}

func genericSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Resolve converts a parsed ast.Type into an internal Type, instantiating
// struct/enum generics and expanding type aliases. generics names the
// type parameters currently in scope (e.g. a function's own <T, U>),
// which resolve to fresh TVars rather than a failed lookup.
func (r *Registry) Resolve(t ast.Type, generics map[string]bool) (Type, error) {
	switch tt := t.(type) {
	case nil:
		return TUnit, nil
	case ast.SimpleType:
		return r.resolveName(tt.Name, nil, generics)
	case ast.GenericType:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			resolved, err := r.Resolve(a, generics)
			if err != nil {
				return nil, err
			}
			args[i] = resolved
		}
		switch tt.Base {
		case "Array":
			return &TArray{Elem: args[0]}, nil
		case "Map":
			return &TMap{Key: args[0], Value: args[1]}, nil
		}
		return r.resolveName(tt.Base, args, generics)
	case ast.FuncType:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			resolved, err := r.Resolve(p, generics)
			if err != nil {
				return nil, err
			}
			params[i] = resolved
		}
		ret, err := r.Resolve(tt.Return, generics)
		if err != nil {
			return nil, err
		}
		return &TFunc{Params: params, Return: ret}, nil
	case ast.TupleType:
		elems := make([]Type, len(tt.Elems))
		for i, e := range tt.Elems {
			resolved, err := r.Resolve(e, generics)
			if err != nil {
				return nil, err
			}
			elems[i] = resolved
		}
		return &TTuple{Elems: elems}, nil
	default:
		return nil, fmt.Errorf("unrecognized type syntax %T", t)
	}
}

func (r *Registry) resolveName(name string, args []Type, generics map[string]bool) (Type, error) {
	if generics[name] {
		return &TVar{Name: name}, nil
	}
	switch name {
	case "int":
		return TInt, nil
	case "float":
		return TFloat, nil
	case "bool":
		return TBool, nil
	case "string":
		return TString, nil
	case "unit":
		return TUnit, nil
	}
	if decl, ok := r.Structs[name]; ok {
		return r.instantiateStruct(decl, args)
	}
	if decl, ok := r.Enums[name]; ok {
		return r.instantiateEnum(decl, args)
	}
	if alias, ok := r.Aliases[name]; ok {
		return r.Resolve(alias.Type, generics)
	}
	return nil, fmt.Errorf("undefined type %q", name)
}

// instantiateStruct builds a TStruct with decl's generic parameters
// substituted by args (or a fresh TVar per unfilled parameter, so a
// partially-applied generic struct type still type-checks during
// inference and gets solved by unification later).
func (r *Registry) instantiateStruct(decl *ast.StructDecl, args []Type) (Type, error) {
	sub, argsOut := bindGenerics(decl.Generics, args)
	inner := genericSet(decl.Generics)
	fields := make(map[string]Type, len(decl.Fields))
	order := make([]string, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		ft, err := r.Resolve(f.Type, inner)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", decl.Name, f.Name, err)
		}
		fields[f.Name] = ApplySubstitution(sub, ft)
		order = append(order, f.Name)
	}
	return &TStruct{Name: decl.Name, Args: argsOut, Fields: fields, Order: order}, nil
}

func (r *Registry) instantiateEnum(decl *ast.EnumDecl, args []Type) (Type, error) {
	sub, argsOut := bindGenerics(decl.Generics, args)
	inner := genericSet(decl.Generics)
	variants := make(map[string]*TEnumVariant, len(decl.Variants))
	order := make([]string, 0, len(decl.Variants))
	for _, v := range decl.Variants {
		tv := &TEnumVariant{Name: v.Name}
		for _, p := range v.TuplePayload {
			pt, err := r.Resolve(p, inner)
			if err != nil {
				return nil, fmt.Errorf("variant %s.%s: %w", decl.Name, v.Name, err)
			}
			tv.TuplePayload = append(tv.TuplePayload, ApplySubstitution(sub, pt))
		}
		if len(v.StructPayload) > 0 {
			tv.StructPayload = make(map[string]Type, len(v.StructPayload))
			for _, f := range v.StructPayload {
				ft, err := r.Resolve(f.Type, inner)
				if err != nil {
					return nil, fmt.Errorf("variant %s.%s.%s: %w", decl.Name, v.Name, f.Name, err)
				}
				tv.StructPayload[f.Name] = ApplySubstitution(sub, ft)
				tv.FieldOrder = append(tv.FieldOrder, f.Name)
			}
		}
		variants[v.Name] = tv
		order = append(order, v.Name)
	}
	return &TEnum{Name: decl.Name, Args: argsOut, Variants: variants, Order: order}, nil
}

// bindGenerics pairs a declaration's generic parameter names with the
// supplied instantiation arguments, filling any missing trailing
// arguments with fresh type variables.
func bindGenerics(names []string, args []Type) (Substitution, []Type) {
	sub := make(Substitution, len(names))
	out := make([]Type, len(names))
	for i, name := range names {
		var t Type
		if i < len(args) {
			t = args[i]
		} else {
			t = Fresh()
		}
		sub[name] = t
		out[i] = t
	}
	return sub, out
}
