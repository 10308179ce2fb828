package routematch_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/dunglas/go-routematch"
	"github.com/google/uuid"
)

type Page interface{ page() }

type Home struct{}

type User struct {
	ID int `route:"id"`
}

type Profile struct {
	Name string `route:"name"`
}

type UserPosts struct {
	ID   int      `route:"id"`
	Rest []string `route:"rest"`
}

type Article struct {
	Slug string
}

type Search struct {
	Query string `route:"q"`
	Page  *int   `route:"page"`
}

type Session struct {
	ID uuid.UUID `route:"id"`
}

type SettingsPage struct {
	Section Settings `route:"section"`
}

type Pair struct {
	First  string `route:"0"`
	Second string `route:"1"`
}

type Paint struct {
	Color Color `route:"color"`
}

type conn struct{ name string }

type StateFail struct {
	Conn *conn `route:",state"`
	ID   int   `route:"id"`
}

type WithState struct {
	Name  string `route:"name"`
	Conn  *conn  `route:",state"`
	Other string `route:"-"`
}

type PtrRoute struct {
	ID int `route:"id"`
}

type Orphan struct{}

func (Home) page()         {}
func (User) page()         {}
func (Profile) page()      {}
func (UserPosts) page()    {}
func (Article) page()      {}
func (Search) page()       {}
func (Session) page()      {}
func (SettingsPage) page() {}
func (Pair) page()         {}
func (Paint) page()        {}
func (StateFail) page()    {}
func (WithState) page()    {}
func (*PtrRoute) page()    {}
func (Orphan) page()       {}

type Settings interface{ settings() }

type SettingsProfile struct{}

type SettingsTab struct {
	Tab string `route:"tab"`
}

func (SettingsProfile) settings() {}
func (SettingsTab) settings()     {}

type Color string

func (c *Color) UnmarshalText(text []byte) error {
	switch s := strings.ToLower(string(text)); s {
	case "red", "green":
		*c = Color(s)

		return nil
	}

	return fmt.Errorf("unknown color %q", text)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

func newPages(t *testing.T) *routematch.Switch[Page] {
	t.Helper()

	settings := routematch.NewSwitch[Settings]()
	for _, r := range []struct {
		pattern   string
		prototype Settings
	}{
		{"profile", SettingsProfile{}},
		{"tab/{tab}", SettingsTab{}},
	} {
		if err := settings.Route(r.pattern, r.prototype); err != nil {
			t.Fatal(err)
		}
	}

	pages := routematch.NewSwitch[Page](
		routematch.WithNested(settings),
		routematch.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	for _, r := range []struct {
		pattern   string
		prototype Page
	}{
		{"/", Home{}},
		{"/users/{id}", User{}},
		{"/users/{name}", Profile{}},
		{"/users/{id}/posts(/{*:rest})", UserPosts{}},
		{"/articles/{Slug}", Article{}},
		{"/search?q={q}(&page={page})", Search{}},
		{"/sessions/{id}", Session{}},
		{"/settings/{*:section}", SettingsPage{}},
		{"/pair/{}/{}", Pair{}},
		{"/paint/{color}", Paint{}},
		{"/state/{id}", StateFail{}},
		{"/state/{name}", WithState{}},
		{"/ptr/{id}", &PtrRoute{}},
	} {
		if err := pages.Route(r.pattern, r.prototype); err != nil {
			t.Fatal(err)
		}
	}

	return pages
}

func intPtr(i int) *int {
	return &i
}

func TestSwitchResolve(t *testing.T) {
	pages := newPages(t)
	sessionID := uuid.MustParse("0b8e7b5a-3d1c-4d2a-9a53-0d6d1c1b0f11")

	tests := []struct {
		input string
		want  Page
	}{
		{"/", Home{}},
		{"/users/42", User{ID: 42}},
		{"/users/42/", User{ID: 42}},
		{"/users/me", Profile{Name: "me"}},
		{"/users/42/posts", UserPosts{ID: 42}},
		{"/users/42/posts/a/b", UserPosts{ID: 42, Rest: []string{"a", "b"}}},
		{"/articles/hello", Article{Slug: "hello"}},
		{"/search?q=go", Search{Query: "go"}},
		{"/search?q=go&page=2", Search{Query: "go", Page: intPtr(2)}},
		{"/search?q=go&page=two", Search{Query: "go"}},
		{"/sessions/" + sessionID.String(), Session{ID: sessionID}},
		{"/settings/profile", SettingsPage{Section: SettingsProfile{}}},
		{"/settings/tab/privacy", SettingsPage{Section: SettingsTab{Tab: "privacy"}}},
		{"/pair/a/b", Pair{First: "a", Second: "b"}},
		{"/paint/RED", Paint{Color: "red"}},
		{"/state/x", WithState{Name: "x"}},
		{"/ptr/3", &PtrRoute{ID: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := pages.Resolve(tt.input)
			if !ok {
				t.Logf("want %q to resolve", tt.input)
				t.FailNow()
			}

			if !reflect.DeepEqual(tt.want, got) {
				t.Logf("want %#v; got %#v", tt.want, got)
				t.Fail()
			}
		})
	}

	for _, input := range []string{"/nothing/here", "/sessions/nope", "/settings/unknown", "/paint/blue", "/pair/a"} {
		if got, ok := pages.Resolve(input); ok {
			t.Logf("unexpected resolution of %q: %#v", input, got)
			t.Fail()
		}
	}
}

func TestSwitchResolveState(t *testing.T) {
	pages := newPages(t)
	db := &conn{name: "db"}

	got, ok := pages.ResolveState("/state/x", db)
	if !ok {
		t.Log("want /state/x to resolve")
		t.FailNow()
	}

	// The failed StateFail attempt must not consume the state.
	want := WithState{Name: "x", Conn: db}
	if !reflect.DeepEqual(want, got) {
		t.Logf("want %#v; got %#v", want, got)
		t.Fail()
	}

	got, ok = pages.ResolveState("/state/1", db)
	if !ok {
		t.Log("want /state/1 to resolve")
		t.FailNow()
	}
	if want := (StateFail{ID: 1, Conn: db}); !reflect.DeepEqual(want, got) {
		t.Logf("want %#v; got %#v", want, got)
		t.Fail()
	}

	// A state of the wrong type is left unclaimed.
	got, _ = pages.ResolveState("/state/x", "not a connection")
	if want := (WithState{Name: "x"}); !reflect.DeepEqual(want, got) {
		t.Logf("want %#v; got %#v", want, got)
		t.Fail()
	}
}

func TestSwitchBuild(t *testing.T) {
	pages := newPages(t)

	tests := []struct {
		value Page
		want  string
	}{
		{Home{}, "/"},
		{User{ID: 42}, "/users/42"},
		{Profile{Name: "me"}, "/users/me"},
		{Profile{Name: "a b"}, "/users/a%20b"},
		{Profile{Name: "a/b"}, "/users/a%2Fb"},
		{Profile{Name: "café"}, "/users/caf%C3%A9"},
		{Profile{Name: "100%"}, "/users/100%25"},
		{Search{Query: "a&b=c"}, "/search?q=a%26b%3Dc"},
		{UserPosts{ID: 42, Rest: []string{"a b", "c"}}, "/users/42/posts/a%20b/c"},
		{SettingsPage{Section: SettingsTab{Tab: "a b"}}, "/settings/tab/a%20b"},
		{Session{ID: uuid.MustParse("0b8e7b5a-3d1c-4d2a-9a53-0d6d1c1b0f11")}, "/sessions/0b8e7b5a-3d1c-4d2a-9a53-0d6d1c1b0f11"},
		{UserPosts{ID: 42}, "/users/42/posts"},
		{UserPosts{ID: 42, Rest: []string{"a", "b"}}, "/users/42/posts/a/b"},
		{Search{Query: "go"}, "/search?q=go"},
		{Search{Query: "go", Page: intPtr(2)}, "/search?q=go&page=2"},
		{SettingsPage{Section: SettingsTab{Tab: "privacy"}}, "/settings/tab/privacy"},
		{Pair{First: "a", Second: "b"}, "/pair/a/b"},
		{Paint{Color: "green"}, "/paint/green"},
		{WithState{Name: "x"}, "/state/x"},
		{&PtrRoute{ID: 3}, "/ptr/3"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := pages.Build(tt.value)
			if err != nil {
				t.Logf("unexpected error: %s", err)
				t.FailNow()
			}

			if got != tt.want {
				t.Logf("want %q; got %q", tt.want, got)
				t.FailNow()
			}

			resolved, ok := pages.Resolve(got)
			if !ok || !reflect.DeepEqual(tt.value, resolved) {
				t.Logf("%q must resolve to %#v; got %#v, %v", got, tt.value, resolved, ok)
				t.Fail()
			}
		})
	}

	// State is not part of the built string.
	if got, err := pages.Build(WithState{Name: "x", Conn: &conn{}}); err != nil || got != "/state/x" {
		t.Logf("want /state/x; got %q, %v", got, err)
		t.Fail()
	}

	if got, err := pages.Build(UserPosts{ID: 1, Rest: []string{"a/b"}}); !errors.Is(err, routematch.InvalidCaptureValueError) {
		t.Logf("want InvalidCaptureValueError for a segment containing a slash; got %q, %v", got, err)
		t.Fail()
	}

	for _, v := range []Page{Orphan{}, Profile{}, SettingsPage{}, nil} {
		if got, err := pages.Build(v); !errors.Is(err, routematch.NoVariantError) {
			t.Logf("want NoVariantError for %#v; got %q, %v", v, got, err)
			t.Fail()
		}
	}
}

func TestSwitchRouteErrors(t *testing.T) {
	type Typo struct {
		Idd int `route:"idd"`
	}
	type OutOfRange struct {
		Third string `route:"2"`
	}
	type Unsupported struct {
		Values map[string]int `route:"id"`
	}

	s := routematch.NewSwitch[any]()

	err := s.Route("/x/{id}", Typo{})
	if !errors.Is(err, routematch.UnknownCaptureError) || !strings.Contains(err.Error(), `did you mean "id"?`) {
		t.Logf("want UnknownCaptureError with a suggestion; got %v", err)
		t.Fail()
	}

	if err := s.Route("/x/{}/{}", OutOfRange{}); !errors.Is(err, routematch.UnknownCaptureError) {
		t.Logf("want UnknownCaptureError; got %v", err)
		t.Fail()
	}

	if err := s.Route("/x/{id}", Unsupported{}); !errors.Is(err, routematch.UnsupportedFieldTypeError) {
		t.Logf("want UnsupportedFieldTypeError; got %v", err)
		t.Fail()
	}

	if err := s.Route("/x", 42); !errors.Is(err, routematch.InvalidVariantError) {
		t.Logf("want InvalidVariantError; got %v", err)
		t.Fail()
	}

	if err := s.Route("/x", nil); !errors.Is(err, routematch.InvalidVariantError) {
		t.Logf("want InvalidVariantError; got %v", err)
		t.Fail()
	}

	var pe *routematch.ParseError
	if err := s.Route("//", Typo{}); !errors.As(err, &pe) {
		t.Logf("want *ParseError; got %v", err)
		t.Fail()
	}
}
