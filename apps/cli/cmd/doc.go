// Package cmd implements the wireform CLI commands using Cobra.
//
// Available commands:
//   - encode: Encode a YAML body descriptor and write the wire payload
//   - sse: Interpret an event stream from a file, stdin or URL
//   - send: Encode a body descriptor and send it as an HTTP request
//   - validate: Check body descriptors without encoding them
//   - import: Convert curl commands into body descriptors
//   - mock: Start a local server that inspects bodies and replays events
//   - init: Create an example project
//   - docs: Print the body descriptor JSON schema
//   - completion: Generate shell completion scripts
//   - version: Show wireform version information
//
// Settings come from a wireform config file, an optional .env file,
// WIREFORM_* environment variables and command flags, in increasing order
// of precedence.
package cmd
