// Package userdata resolves the ~/.newt/ directory layout: installed template
// packages, the package manifest, caches, and the alias store. NEWT_HOME
// relocates the whole tree, which is how tests isolate themselves.
package userdata
