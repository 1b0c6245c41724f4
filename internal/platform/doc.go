// Package platform wraps permission changes that differ between Unix and
// Windows.
package platform
