// Package nav resolves client routes and applies the session guard.
package nav

import (
	"net/url"
	"strings"
)

// Route identifies a screen.
type Route string

const (
	RouteSignIn   Route = "signin"
	RouteSignUp   Route = "signup"
	RouteHome     Route = "home"
	RouteTopic    Route = "topic"
	RouteNotFound Route = "not-found"
)

const (
	PathSignIn = "/signin"
	PathSignUp = "/signup"
	PathHome   = "/"
)

// Decision is the outcome of navigating to a path. A non-empty Redirect
// means the screen is not shown and the client goes there instead.
type Decision struct {
	Route    Route
	Slug     string
	Redirect string
}

// Public reports whether the route is reachable without a session.
func (r Route) Public() bool {
	return r == RouteSignIn || r == RouteSignUp
}

// Resolve matches path against the route table. Private routes without a
// session redirect to sign-in carrying the path as prevUrl; public routes
// with a session redirect home.
func Resolve(path string, authed bool) Decision {
	u, err := url.Parse(path)
	if err != nil {
		return Decision{Route: RouteNotFound}
	}

	d := match(u.EscapedPath())
	switch {
	case d.Route == RouteNotFound:
	case d.Route.Public() && authed:
		d.Redirect = PathHome
	case !d.Route.Public() && !authed:
		d.Redirect = SignInURL(u.RequestURI())
	}
	return d
}

// match takes the escaped path; a topic slug is unescaped exactly once.
func match(p string) Decision {
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	switch p {
	case "", PathHome:
		return Decision{Route: RouteHome}
	case PathSignIn:
		return Decision{Route: RouteSignIn}
	case PathSignUp:
		return Decision{Route: RouteSignUp}
	}

	if slug, ok := strings.CutPrefix(p, "/topic/"); ok && slug != "" && !strings.Contains(slug, "/") {
		if s, err := url.PathUnescape(slug); err == nil {
			return Decision{Route: RouteTopic, Slug: s}
		}
	}
	return Decision{Route: RouteNotFound}
}

// SignInURL is the sign-in path that returns to prev afterwards.
func SignInURL(prev string) string {
	return PathSignIn + "?" + url.Values{"prevUrl": {prev}}.Encode()
}

// TopicPath is the path of a topic's question list.
func TopicPath(slug string) string {
	return "/topic/" + url.PathEscape(slug)
}

// AfterSignIn picks where to go once signed in: prevURL, unless it is empty,
// not a local path, or points back at the auth screens.
func AfterSignIn(prevURL string) string {
	if prevURL == "" || !strings.HasPrefix(prevURL, "/") || strings.HasPrefix(prevURL, "//") {
		return PathHome
	}
	if strings.Contains(prevURL, PathSignIn) || strings.Contains(prevURL, PathSignUp) {
		return PathHome
	}
	return prevURL
}

// PrevURL extracts the prevUrl parameter from a sign-in path.
func PrevURL(signInPath string) string {
	u, err := url.Parse(signInPath)
	if err != nil {
		return ""
	}
	return u.Query().Get("prevUrl")
}
