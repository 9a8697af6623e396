// Package body turns declarative request body descriptions into wire bytes.
//
// A RequestBody is one of Empty, Raw, Text or Form. Encoding a Form whose
// parts are all NameValue fields yields an application/x-www-form-urlencoded
// payload; a Form holding any FormFile or MultipartMixed part yields a
// multipart/form-data payload framed per RFC 7578, with CRLF line endings
// and boundaries drawn from the Encoder's boundary generator.
//
// Stream file contents are never buffered. They are copied into the output
// when the Payload is written or read, which makes such a Payload single-use.
// The caller keeps ownership of every stream and closes it afterwards.
//
// Basic usage:
//
//	enc := body.NewEncoder(body.WithBoundaryGenerator(boundary.NewSeeded(1)))
//	ct, payload, err := enc.Encode(body.Form{Parts: []body.Part{
//	    body.NameValue{Name: "title", Value: "report"},
//	    body.FormFile{Field: "upload", File: body.File{
//	        Filename:    "report.csv",
//	        ContentType: "text/csv",
//	        Content:     body.Stream{Reader: f},
//	    }},
//	}}, "utf-8")
package body
