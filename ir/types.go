// Copyright (c) 2026 The Ahorn Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ir implements Ahorn's structured procedural intermediate
// representation (spec §3 Data model): typed variable declarations,
// expressions, and instructions as parsed by the (out-of-scope) front-end
// and consumed by the Builder (spec §4.1) to produce a CFG.
package ir

import "fmt"

// TypeKind is the closed set of data-type kinds spec §3 names.
type TypeKind uint8

const (
	Boolean TypeKind = iota
	Integer
	Time
	Enumeration
	Derived
)

func (k TypeKind) String() string {
	switch k {
	case Boolean:
		return "BOOL"
	case Integer:
		return "INT"
	case Time:
		return "TIME"
	case Enumeration:
		return "ENUM"
	case Derived:
		return "DERIVED"
	default:
		return "UNKNOWN"
	}
}

// Type is a data type: boolean, integer, time, enumeration, or a derived
// (composite, struct-like) type naming an ordered list of fields.
type Type struct {
	Kind TypeKind
	// Name is the enumeration or derived type's declared name; empty for
	// the primitive kinds Boolean, Integer, Time.
	Name string
	// Enumerators lists the ordered symbolic members of an Enumeration type.
	Enumerators []string
	// Fields lists the ordered members of a Derived (composite) type. Each
	// field may itself be of Derived kind, allowing arbitrary nesting; the
	// Builder's flattened-interface computation (spec §3) is a fixed-point
	// expansion over this nesting.
	Fields []Field
}

// Field is one member of a Derived type.
type Field struct {
	Name string
	Type Type
}

// BooleanType, IntegerType, and TimeType are the three primitive types; they
// have no Name and no Fields/Enumerators.
var (
	BooleanType = Type{Kind: Boolean}
	IntegerType = Type{Kind: Integer}
	TimeType    = Type{Kind: Time}
)

// IsComposite reports whether the type transitively carries nested
// variables, i.e. is Derived. Only Derived types participate in flattened-
// interface expansion.
func (t Type) IsComposite() bool { return t.Kind == Derived }

func (t Type) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Kind.String()
}

// FieldByName looks up a field of a Derived type by name, returning false
// if absent or if t is not Derived.
func (t Type) FieldByName(name string) (Field, bool) {
	if t.Kind != Derived {
		return Field{}, false
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Value is a concrete constant value of one of the primitive kinds, plus the
// two sentinel kinds `Undefined` (no value yet assigned, e.g. an
// uninitialised local before its first write) and `Nondeterministic` (the
// value produced by a havoc, spec §3 Instructions).
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int32
	Enum  string
	Undef bool
	Nondet bool
}

// ValueKind distinguishes the payload carried by a Value.
type ValueKind uint8

const (
	BoolValue ValueKind = iota
	IntValue
	EnumValue
	UndefinedValue
	NondeterministicValue
)

// NewBool constructs a boolean constant Value.
func NewBool(b bool) Value { return Value{Kind: BoolValue, Bool: b} }

// NewInt constructs a signed 32-bit integer constant Value (spec §4.6:
// integer operations are signed, 32-bit, two's-complement).
func NewInt(i int32) Value { return Value{Kind: IntValue, Int: i} }

// NewEnum constructs an enumerated constant Value.
func NewEnum(name string) Value { return Value{Kind: EnumValue, Enum: name} }

// Undefined constructs the sentinel "no value yet" Value.
func Undefined() Value { return Value{Kind: UndefinedValue, Undef: true} }

// Nondeterministic constructs the sentinel havoc-result Value.
func Nondeterministic() Value { return Value{Kind: NondeterministicValue, Nondet: true} }

func (v Value) String() string {
	switch v.Kind {
	case BoolValue:
		return fmt.Sprintf("%t", v.Bool)
	case IntValue:
		return fmt.Sprintf("%d", v.Int)
	case EnumValue:
		return v.Enum
	case UndefinedValue:
		return "undefined"
	case NondeterministicValue:
		return "*"
	default:
		return "?"
	}
}

// DefaultValue returns the zero value for a data type of the given Kind,
// used by the SMT facade's MakeDefaultValue (spec §4.4) to initialise
// declarations with no explicit initialisation constant.
func DefaultValue(kind TypeKind) Value {
	switch kind {
	case Boolean:
		return NewBool(false)
	case Integer, Time:
		return NewInt(0)
	default:
		return Undefined()
	}
}
