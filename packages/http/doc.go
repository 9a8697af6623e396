// Package http sends requests whose bodies are produced by the body package.
//
// It wraps the standard library's http package with:
//   - Configurable timeouts
//   - Redirect handling
//   - Proxy and TLS verification settings
//   - Body encoding, with the encoder's Content-Type override applied last
//   - Response handling and body reading
package http
