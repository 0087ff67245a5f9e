// Package route converts between named route templates and concrete URLs.
//
// A Table holds route names and templates in declaration order. On top of
// it the package provides three operations:
//
//   - Build/PrepareRoute materializes a template with parameter and query
//     values into a path.
//   - Parse/ParseHref resolves an href to the first matching route, its
//     coerced parameters and its decoded query.
//   - IsAppPath reports whether an href's path matches any route.
//
// # Templates
//
// Templates are primarily written in the legacy dialect:
//
//	/user/:id                 named parameter
//	/more/:slug/:second?      optional trailing parameter
//	/files/*                  splat, the rest of the path
//
// Compilation first tries the template as-is against package pattern and,
// if that fails, retries with TranslateLegacy applied. Templates that fail
// both attempts never match.
//
// # Usage
//
//	table, err := route.NewTable(
//	    route.Entry{Name: "profile", Template: "/user/:id"},
//	    route.Entry{Name: "files", Template: "/files/*"},
//	)
//	if err != nil {
//	    return err
//	}
//
//	routes := route.Init(table)
//	path, err := routes.PrepareRoute("profile", route.WithParams(route.ValuesOf("id", 42)))
//	// path == "/user/42"
//
//	result, ok := routes.ParseHref("/user/42?tab=posts")
//	// result.Route == "profile", result.Params["id"] is Number 42
package route
