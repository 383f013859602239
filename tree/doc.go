// Package tree converts S-expressions into display trees.
//
// # Conversion
//
// A [Converter] interprets an [sexp.Expr] under a few conventions:
//
//   - An atom becomes a leaf, unless a binding of that name exists in the
//     converter's [Env], in which case the bound node itself is returned.
//   - An empty list becomes a leaf named "()".
//   - (let ((NAME VALUE)...) BODY) and (let-proof ...) install bindings in
//     order and then convert BODY.
//   - Any other list becomes a node named by its first element. A keyword
//     atom (one beginning with ':') followed by a non-keyword value forms a
//     child named by the keyword whose children are the value's elements.
//
// Binding wrappers are marked [Node.Shared]. The same wrapper is returned
// for every later reference to its name, so a converted document is a
// directed acyclic graph rather than a strict tree. Code that keeps state
// per displayed node must key it by occurrence (see [Walk] and package
// outline), never by *Node. A chain of bindings that each reference the
// previous one twice has exponentially many occurrences, so the formatters
// and queries enumerate with [WalkOnce] and write a shared subtree once.
//
// # Environments
//
// An [Env] is an explicit parameter. Callers decide its scope: one per
// document isolates unrelated inputs, while one per session lets names
// bound in one document resolve in the next. An Env is not safe for
// concurrent use.
//
// # Output
//
// [FormatJSON], [FormatYAML], and [FormatOutline] write converted roots in
// machine- or human-readable form, and [Compile] builds expr-lang filters
// that select node occurrences.
package tree
