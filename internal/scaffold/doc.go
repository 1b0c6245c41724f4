// Package scaffold instantiates a resolved template into an output
// directory. It renders the template through its generator, plans every file
// as a create or an overwrite, refuses to touch existing files unless forced,
// and runs the template's post actions once the files are in place.
package scaffold
