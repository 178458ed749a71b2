// Package schema declares parsers as data.
//
// A type expression ("u8", "vec<array<i32, 3>>", `literal:"ok"`,
// "int[-5..5]", "string[1..16]") is parsed into a TypeSpec and built into a
// chunkparse.Parser[any]. A Structure groups named input and output fields,
// can be loaded from YAML or JSON, and is exported as JSON Schema for plugin
// hosts.
package schema
