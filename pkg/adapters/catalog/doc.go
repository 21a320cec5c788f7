// Package catalog provides template catalog implementations.
//
// Implementations:
//   - memory: in-memory catalog with the built-in Windows event
//     template set and the known MITRE technique table
package catalog
