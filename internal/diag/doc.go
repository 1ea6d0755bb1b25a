// Package diag turns pipeline failures into diagnostics.
//
// A failure is any error returned by a build. When its chain contains a
// *syntax.Error whose item can be located, Resolve maps the span onto the
// first source line it touches; the result carries the line number, the line
// text and the columns of the span within it. Failures that cannot be
// located are not diagnostics; callers report them as exceptions.
//
// Codes group diagnostics by the stage that produced them:
//
//	SYN2xxx  lexer and parser
//	SEM3xxx  name resolution and typing
//	GEN4xxx  JavaScript generation
//	VER5xxx  verification
//	INT9xxx  internal failures
package diag
