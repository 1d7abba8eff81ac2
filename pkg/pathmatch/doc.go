// Package pathmatch compiles admin route patterns into reusable matchers.
//
// # Pattern Syntax
//
//	/products                 static text
//	/products/:id             named parameter, one segment
//	/products/:id:int         typed parameter (int, uint, uuid, string)
//	/files/*path              wildcard, one or more segments
//	/products{/:id}           optional group, groups nest
//	/products/:id?            optional parameter together with its slash
//	/a\{b\}                   backslash escapes a special character
//
// Matching is case-insensitive unless CaseSensitive is passed, a single
// trailing slash is tolerated unless Strict is passed, and captured values
// are percent-decoded before they are exposed. A single-segment parameter
// whose decoded value contains "/" does not match.
//
// Compile never panics on bad input: malformed patterns return a
// *SyntaxError so configuration mistakes surface at registration time
// rather than on the first request. A compiled Matcher holds no mutable
// state and is safe for concurrent use.
package pathmatch
