// Package mediatype implements the ContentType value type used when building
// request bodies.
//
// Parsing is case-insensitive on the type, subtype and parameter names.
// Serialization always quotes the boundary parameter and lowercases the
// charset value, so a ContentType renders the same way no matter how the
// caller spelled it.
package mediatype
