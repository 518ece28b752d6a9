// SPDX-License-Identifier: MPL-2.0

package exports

import (
	"errors"
	"fmt"
	"reflect"
)

// KeySep separates the module path from the identifier in a composite key.
const KeySep = "::"

const (
	// KindStruct is a struct type declaration.
	KindStruct Kind = iota + 1
	// KindEnum is a defined integer or string type.
	KindEnum
	// KindFunc is a top-level function.
	KindFunc
)

// ErrConflict is the sentinel error wrapped by ConflictError.
var ErrConflict = errors.New("conflicting export registration")

type (
	// Kind classifies an exported declaration.
	Kind uint8

	// ExportItem describes one registered declaration.
	ExportItem struct {
		// Name is the externally visible name: Ident, or FullPath when
		// IsFullPath is set.
		Name string
		// Ident is the bare declared identifier.
		Ident string
		// ModulePath is the import path of the declaring package.
		ModulePath string
		// FullPath is ModulePath + "." + Ident.
		FullPath string
		// IsFullPath reports which naming policy produced Name.
		IsFullPath bool
		// Kind is the declaration kind.
		Kind Kind
		// Type is the declared type (structs and enums) or the function
		// signature. Nil for generic declarations.
		Type reflect.Type
		// Value is the function value for KindFunc. Nil otherwise.
		Value any
	}

	// ConflictError reports two different items registered under one key.
	ConflictError struct {
		Key      string
		Existing ExportItem
		Incoming ExportItem
	}
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindFunc:
		return "func"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// KeyOf returns the composite key for ident declared in modulePath.
func KeyOf(modulePath, ident string) string {
	return modulePath + KeySep + ident
}

// FullPathOf returns the dotted full path for ident declared in modulePath.
func FullPathOf(modulePath, ident string) string {
	return modulePath + "." + ident
}

// NameOf returns the display name under the selected naming policy.
func NameOf(modulePath, ident string, fullPath bool) string {
	if fullPath {
		return FullPathOf(modulePath, ident)
	}
	return ident
}

// Key returns the composite key of the item.
func (e ExportItem) Key() string {
	return KeyOf(e.ModulePath, e.Ident)
}

// String returns the display name followed by the kind.
func (e ExportItem) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Kind)
}

// sameDeclaration compares everything except Value, which may hold an
// uncomparable func.
func (e ExportItem) sameDeclaration(o ExportItem) bool {
	return e.Name == o.Name &&
		e.Ident == o.Ident &&
		e.ModulePath == o.ModulePath &&
		e.FullPath == o.FullPath &&
		e.IsFullPath == o.IsFullPath &&
		e.Kind == o.Kind &&
		e.Type == o.Type
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("export %q registered twice with different descriptors (%s vs %s)",
		e.Key, e.Existing, e.Incoming)
}

// Unwrap returns ErrConflict for errors.Is() compatibility.
func (e *ConflictError) Unwrap() error { return ErrConflict }
