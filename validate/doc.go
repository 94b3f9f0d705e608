// Package validate checks generator-produced UI documents against a
// component catalog.
//
// PropValidator checks the prop bag of one node. TreeValidator walks an
// element tree, resolving each node's component, enforcing child
// cardinality and the depth limit, and collecting every diagnostic in
// document order. Validator adds decoding of raw JSON documents, logging
// and an observer hook on top.
//
//	v := validate.New(catalog.Default())
//	res := v.ValidateBytes(ctx, data)
//	if !res.OK() {
//		// feed res.Diagnostics back to the generator
//	}
package validate
