// SPDX-License-Identifier: MPL-2.0

// Package exports is the runtime side of the barexp export registry.
//
// Declarations marked with a //barexp:export or //barexp:export-fullpath
// directive are recorded by `barexp exports gen`, which writes one
// zz_barexp_exports.go file per package. Each generated file registers its
// items from an init function:
//
//	func init() {
//		exports.Submit(exports.ExportItem{
//			Name:       "Widget",
//			Ident:      "Widget",
//			ModulePath: "example.com/shop/catalog",
//			FullPath:   "example.com/shop/catalog.Widget",
//			Kind:       exports.KindStruct,
//			Type:       reflect.TypeFor[Widget](),
//		})
//	}
//
// Package initialisation finishes before main runs, so the registry is
// complete the first time it is read. The first read freezes it: later
// submissions panic, and every Iterate call walks the same frozen set.
//
// Collection is the generic building block behind the default registry.
// Programs that keep their own descriptor types can declare a
// Collection[T] and register into it the same way.
package exports
