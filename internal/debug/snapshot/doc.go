// Package snapshot implements the value backend over a captured memory image.
//
// An Image holds a table of type metadata, a sparse set of mapped memory
// regions and a list of root values. It satisfies value.Process and hands out
// value.Value handles, so the formatters can run against a recorded target
// exactly as they would against a live debugger.
//
// Images are built either programmatically with a Builder or decoded from a
// snapshot file:
//
//	[[types]]
//	name = "i32"
//	kind = "scalar"
//	size = 4
//
//	[[types]]
//	name = "Point"
//	kind = "struct"
//	fields = [
//	    { name = "x", type = "i32" },
//	    { name = "y", type = "i32" },
//	]
//
//	[[regions]]
//	address = 0x1000
//	bytes = "0100000002000000"
//
//	[[values]]
//	name = "p"
//	type = "Point"
//	address = 0x1000
//
// Field offsets default to sequential packing for structs and zero for
// unions. Scalars are little-endian.
package snapshot
