package util

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
)

// routeNameRegex allows names usable as YAML keys and CLI arguments.
var routeNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]*$`)

// identifierRegex matches a legacy template parameter name.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateRouteName validates a route name.
func ValidateRouteName(name string) error {
	if name == "" {
		return fmt.Errorf("route name cannot be empty")
	}
	if !routeNameRegex.MatchString(name) {
		return fmt.Errorf("invalid route name: %s", name)
	}
	return nil
}

// ValidateIdentifier validates a template parameter name.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("invalid identifier: %s", name)
	}
	return nil
}

// ValidatePort validates a port number.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", port)
	}
	return nil
}

// ValidateListenAddress validates a host:port listen address. The host may
// be empty.
func ValidateListenAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %s: %w", addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port in %s: %w", addr, err)
	}

	return ValidatePort(port)
}

// ValidateNonNegative validates that a size or count is not negative.
func ValidateNonNegative(name string, value int) error {
	if value < 0 {
		return fmt.Errorf("%s cannot be negative, got: %d", name, value)
	}
	return nil
}
