// Package source obtains document text from files, standard input, and
// HTTP(S) URLs.
//
// A [Loader] resolves a location string:
//
//	-                      standard input
//	http://... https://... the body of a GET request
//	anything else          a file, tried as given and then relative to each
//	                       directory of the search path
//
// The search path is the directories given with [WithSearchPath] followed
// by the entries of the SXVIEW_PATH environment variable.
//
// Every failure satisfies errors.Is with [ErrAcquire] and carries the
// location as the "source" attribute and the underlying reason as "cause".
// HTTP failures add the response "status" when there is one and a "hint"
// suggesting what to check.
package source
