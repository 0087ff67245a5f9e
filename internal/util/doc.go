// Package util provides shared helpers for routekit.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrConfigInvalid.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., ConfigError, ArgumentError). Each type
//     implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// # Validation
//
// Input validation helpers for route names, capture names and
// listen addresses:
//
//	err := util.ValidateRouteName("profile")
//	err := util.ValidateListenAddress(":9090")
package util
