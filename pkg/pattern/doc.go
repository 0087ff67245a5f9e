// Package pattern compiles path templates into reusable matchers.
//
// The template grammar:
//
//	/users/:id            named parameter, matches up to the next "/"
//	/users/:"user id"     quoted parameter name
//	/files/*path          wildcard, matches the rest of the path (captured as a list)
//	/users{/:id}          optional group, groups may nest
//	/literal\:colon       "\" escapes the next character
//
// The characters ( ) [ ] ? + ! are reserved and rejected, as are ":" and "*"
// without a name. Templates written with a trailing "?" on a parameter or a
// bare "/*" splat are not part of this grammar; see package route for the
// translation of that dialect.
//
// # Usage
//
//	m, err := pattern.Compile("/users/:id{/:tab}")
//	if err != nil {
//	    return err
//	}
//
//	if match, ok := m.Match("/users/42"); ok {
//	    // match.Params["id"].Text() == "42"
//	}
//
//	ok := m.Test("/users/42/settings")
//
// Matching is anchored, case-insensitive unless WithSensitive is given, and
// tolerates a trailing "/". Captured values are percent-decoded.
package pattern
