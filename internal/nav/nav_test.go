package nav

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		authed bool
		want   Decision
	}{
		{"home signed in", "/", true, Decision{Route: RouteHome}},
		{"home anonymous", "/", false, Decision{Route: RouteHome, Redirect: "/signin?prevUrl=%2F"}},
		{"topic signed in", "/topic/arrays", true, Decision{Route: RouteTopic, Slug: "arrays"}},
		{"topic trailing slash", "/topic/arrays/", true, Decision{Route: RouteTopic, Slug: "arrays"}},
		{"topic anonymous", "/topic/arrays", false, Decision{Route: RouteTopic, Slug: "arrays", Redirect: "/signin?prevUrl=%2Ftopic%2Farrays"}},
		{"signin anonymous", "/signin", false, Decision{Route: RouteSignIn}},
		{"signin signed in", "/signin?prevUrl=/topic/x", true, Decision{Route: RouteSignIn, Redirect: "/"}},
		{"signup signed in", "/signup", true, Decision{Route: RouteSignUp, Redirect: "/"}},
		{"unknown", "/settings", true, Decision{Route: RouteNotFound}},
		{"unknown anonymous", "/settings", false, Decision{Route: RouteNotFound}},
		{"nested topic", "/topic/a/b", true, Decision{Route: RouteNotFound}},
		{"topic without slug", "/topic/", true, Decision{Route: RouteNotFound}},
		{"escaped slug", "/topic/two%20sum", true, Decision{Route: RouteTopic, Slug: "two sum"}},
		{"escaped percent unescaped once", "/topic/a%2520b", true, Decision{Route: RouteTopic, Slug: "a%20b"}},
		{"literal percent", "/topic/a%25zz", true, Decision{Route: RouteTopic, Slug: "a%zz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.path, tt.authed); got != tt.want {
				t.Errorf("Resolve(%q, %v) = %+v, want %+v", tt.path, tt.authed, got, tt.want)
			}
		})
	}
}

func TestAfterSignIn(t *testing.T) {
	tests := []struct {
		prev string
		want string
	}{
		{"", "/"},
		{"/topic/arrays", "/topic/arrays"},
		{"/signin", "/"},
		{"/signup?x=1", "/"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
	}

	for _, tt := range tests {
		if got := AfterSignIn(tt.prev); got != tt.want {
			t.Errorf("AfterSignIn(%q) = %q, want %q", tt.prev, got, tt.want)
		}
	}
}

func TestPrevURL_RoundTrip(t *testing.T) {
	d := Resolve("/topic/two%20pointers", false)
	if d.Slug != "two pointers" {
		t.Errorf("slug = %q", d.Slug)
	}
	if got := PrevURL(d.Redirect); got != "/topic/two%20pointers" {
		t.Errorf("PrevURL() = %q", got)
	}
	if got := TopicPath("two pointers"); got != "/topic/two%20pointers" {
		t.Errorf("TopicPath() = %q", got)
	}
}
