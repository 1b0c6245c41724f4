// Package catalog holds the in-memory template model: templates, their
// parameters and post actions, localizations, and the merged read-only
// catalog that resolution runs against.
package catalog
