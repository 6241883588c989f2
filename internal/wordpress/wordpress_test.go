package wordpress_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Papalexios/schema-markup-generator/internal/gateway"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
	"github.com/Papalexios/schema-markup-generator/internal/wordpress"
)

// fakeSite is a minimal WordPress REST API double. It serves one post
// and one page and records meta updates.
type fakeSite struct {
	postSlug string
	pageSlug string
	postID   int
	pageID   int

	// updatedMeta maps "contentType/id" to the serialized schema
	// received for it.
	updatedMeta map[string]string
	// rejectUpdates makes every meta update fail with a 403 envelope.
	rejectUpdates bool
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		postSlug:    "hello-world",
		pageSlug:    "about",
		postID:      11,
		pageID:      22,
		updatedMeta: map[string]string{},
	}
}

func (f *fakeSite) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"code": "rest_not_logged_in", "message": "You are not currently logged in."}`)
			return
		}

		switch {
		case r.URL.Path == "/wp-json/wp/v2/users/me":
			fmt.Fprint(w, `{"id": 1, "name": "admin"}`)
		case r.URL.Path == "/wp-json/wp/v2/posts" && r.Method == http.MethodGet:
			f.serveLookup(w, r.URL.Query().Get("slug"), f.postSlug, f.postID)
		case r.URL.Path == "/wp-json/wp/v2/pages" && r.Method == http.MethodGet:
			f.serveLookup(w, r.URL.Query().Get("slug"), f.pageSlug, f.pageID)
		case r.URL.Path == fmt.Sprintf("/wp-json/wp/v2/posts/%d", f.postID) && r.Method == http.MethodPost:
			f.serveUpdate(t, w, r, fmt.Sprintf("posts/%d", f.postID))
		case r.URL.Path == fmt.Sprintf("/wp-json/wp/v2/pages/%d", f.pageID) && r.Method == http.MethodPost:
			f.serveUpdate(t, w, r, fmt.Sprintf("pages/%d", f.pageID))
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"code": "rest_no_route", "message": "No route was found."}`)
		}
	}
}

func (f *fakeSite) serveLookup(w http.ResponseWriter, requested, slug string, id int) {
	if requested == slug {
		fmt.Fprintf(w, `[{"id": %d}]`, id)
		return
	}
	fmt.Fprint(w, `[]`)
}

func (f *fakeSite) serveUpdate(t *testing.T, w http.ResponseWriter, r *http.Request, key string) {
	if f.rejectUpdates {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"code": "rest_cannot_update", "message": "Sorry, you are not allowed to edit this post."}`)
		return
	}

	var payload struct {
		Meta map[string]string `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	f.updatedMeta[key] = payload.Meta[wordpress.MetaFieldKey]
	fmt.Fprint(w, `{"id": 1}`)
}

func newClient(t *testing.T, site *fakeSite) (*wordpress.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(site.handler(t))
	t.Cleanup(server.Close)

	creds := wordpress.Credentials{
		SiteURL:     server.URL,
		Username:    "admin",
		AppPassword: "abcd efgh ijkl mnop",
	}
	gw := gateway.New(gateway.Config{}, logger.NewNoop())
	return wordpress.New(creds, gw, logger.NewNoop()), server
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, newFakeSite())
	assert.NoError(t, client.ValidateCredentials(context.Background()))
}

func TestValidateCredentials_Rejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	creds := wordpress.Credentials{SiteURL: server.URL, Username: "admin", AppPassword: "wrong"}
	client := wordpress.New(creds, gateway.New(gateway.Config{}, logger.NewNoop()), logger.NewNoop())

	err := client.ValidateCredentials(context.Background())
	require.Error(t, err)

	var credErr *wordpress.CredentialError
	assert.ErrorAs(t, err, &credErr)
}

func TestInject_Post(t *testing.T) {
	t.Parallel()

	site := newFakeSite()
	client, _ := newClient(t, site)

	schema := map[string]any{"@type": "Article", "headline": "Hello"}
	err := client.Inject(context.Background(), "https://example.com/2024/hello-world/", schema)
	require.NoError(t, err)

	serialized := site.updatedMeta["posts/11"]
	require.NotEmpty(t, serialized)

	var stored map[string]any
	require.NoError(t, json.Unmarshal([]byte(serialized), &stored))
	assert.Equal(t, "Hello", stored["headline"])
}

func TestInject_PageFallsBackFromPosts(t *testing.T) {
	t.Parallel()

	site := newFakeSite()
	client, _ := newClient(t, site)

	// "about" only exists as a page; the posts lookup returns an empty
	// list, and the posts update 404s before the pages update succeeds.
	err := client.Inject(context.Background(), "https://example.com/about/", map[string]any{"@type": "WebPage"})
	require.NoError(t, err)
	assert.NotEmpty(t, site.updatedMeta["pages/22"])
}

func TestInject_UnknownSlug(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, newFakeSite())

	err := client.Inject(context.Background(), "https://example.com/no-such-page/", map[string]any{"@type": "WebPage"})
	require.Error(t, err)

	var injErr *wordpress.InjectionError
	require.ErrorAs(t, err, &injErr)
	assert.Contains(t, injErr.Error(), "no-such-page")
}

func TestInject_NonNotFoundStatusIsFatalWithAPIMessage(t *testing.T) {
	t.Parallel()

	site := newFakeSite()
	site.rejectUpdates = true
	client, _ := newClient(t, site)

	err := client.Inject(context.Background(), "https://example.com/hello-world/", map[string]any{"@type": "Article"})
	require.Error(t, err)
	// The API's own message surfaces verbatim for diagnosis.
	assert.Contains(t, err.Error(), "Sorry, you are not allowed to edit this post.")
}

func TestInject_RootURLHasNoSlug(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, newFakeSite())

	err := client.Inject(context.Background(), "https://example.com/", map[string]any{"@type": "WebPage"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no slug")
}

func TestCredentials_Validate(t *testing.T) {
	t.Parallel()

	full := wordpress.Credentials{SiteURL: "https://example.com", Username: "u", AppPassword: "p"}
	assert.NoError(t, full.Validate())

	assert.Error(t, wordpress.Credentials{Username: "u", AppPassword: "p"}.Validate())
	assert.Error(t, wordpress.Credentials{SiteURL: "https://example.com", AppPassword: "p"}.Validate())
	assert.Error(t, wordpress.Credentials{SiteURL: "https://example.com", Username: "u"}.Validate())
}

func TestCredentials_SiteIdentity(t *testing.T) {
	t.Parallel()

	creds := wordpress.Credentials{SiteURL: "https://example.com/blog/"}
	assert.Equal(t, "example.com", creds.SiteIdentity())
}
