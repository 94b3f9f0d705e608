// Package uiskema validates generative UI documents.
//
// A generator (typically a language model) emits a tree of elements, each
// naming a component type with props and optional children. uiskema checks
// that tree against a catalog of component contracts and either returns a
// normalized Document or a list of Diagnostics, each addressed by a JSON
// Pointer so the generator can be told exactly what to fix.
//
// Layout:
//   - The root package holds the shared vocabulary: Diagnostics, PathRef,
//     Props, ElementNode, Document and Result.
//   - schema/ builds prop contracts (objects, unions, enums, action refs).
//   - catalog/ registers components and actions and exports the manifest.
//   - validate/ walks element trees and whole documents.
//   - cache/, genloop/, httpapi/ and cmd/uiskema build on validate.
//
// Typical usage:
//
//	v := validate.New(catalog.Default())
//	res := v.ValidateBytes(ctx, data)
//	if !res.OK() {
//		for _, d := range res.Diagnostics {
//			fmt.Println(d.Path, d.Code, d.Message)
//		}
//	}
//	doc := res.Value // defaults applied, declared prop order
package uiskema
