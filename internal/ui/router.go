package ui

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Screen identifies which screen a Route shows.
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetail
)

// Route is a decoded navigation path.
type Route struct {
	Screen Screen
	// ID is the raw path segment for detail routes. It is validated by the
	// detail fetch, not here, so a bad id surfaces as a failed load.
	ID string
}

const (
	listPath      = "/"
	productPrefix = "/products/"
)

// ListPath returns the path of the list screen.
func ListPath() string {
	return listPath
}

// DetailPath returns the navigation path for a product id.
func DetailPath(id int) string {
	return productPrefix + strconv.Itoa(id)
}

// ParseRoute decodes a navigation path.
func ParseRoute(path string) (Route, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == listPath {
		return Route{Screen: ScreenList}, nil
	}
	if id, ok := strings.CutPrefix(trimmed, productPrefix); ok && id != "" && !strings.Contains(id, "/") {
		return Route{Screen: ScreenDetail, ID: id}, nil
	}
	return Route{}, errors.Errorf("unknown route %q", path)
}

// Path encodes r back into a navigation path.
func (r Route) Path() string {
	if r.Screen == ScreenDetail {
		return productPrefix + r.ID
	}
	return listPath
}
