// Package loader resolves template names to template text.
//
// A Loader serves one name at a time; LoadFirst tries a list of names and
// returns the first that exists. FileSystemLoader refuses names that would
// escape its base directories.
package loader
