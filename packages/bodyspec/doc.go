// Package bodyspec reads declarative request body descriptions from YAML.
//
// A descriptor names a body kind and, for forms, an ordered list of parts:
//
//	kind: form
//	parts:
//	  - name: title
//	    value: Quarterly report
//	  - name: report
//	    file:
//	      filename: report.csv
//	      contentType: text/csv
//	      path: ./report.csv
//	  - name: gallery
//	    files:
//	      - filename: a.png
//	        contentType: image/png
//	        path: ./a.png
//	        binary: true
//
// Descriptors are validated against an embedded JSON schema before they are
// turned into body.RequestBody values. Files referenced by path are resolved
// against a base directory and may not escape it.
package bodyspec
