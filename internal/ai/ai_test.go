package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
)

// fakeCompleter returns a canned response or error and records the
// last request for inspection.
type fakeCompleter struct {
	response string
	err      error
	lastReq  completionRequest
	calls    int
}

func (f *fakeCompleter) Complete(_ context.Context, req completionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestClient(backend completer) *client {
	return &client{backend: backend, provider: ProviderOpenAI, log: logger.NewNoop()}
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	ok := newTestClient(&fakeCompleter{response: "OK"})
	assert.True(t, ok.ValidateKey(context.Background()))

	bad := newTestClient(&fakeCompleter{err: fmt.Errorf("401 unauthorized")})
	assert.False(t, bad.ValidateKey(context.Background()))
}

func TestSuggestTypes_DropsUnknownTypes(t *testing.T) {
	t.Parallel()

	backend := &fakeCompleter{response: `{
		"https://example.com/post": "Article",
		"https://example.com/shop": "Product",
		"https://example.com/odd": "Spaceship"
	}`}
	c := newTestClient(backend)

	got, err := c.SuggestTypes(context.Background(), []PageSummary{
		{URL: "https://example.com/post", Title: "A Post"},
		{URL: "https://example.com/shop", Title: "A Shop"},
		{URL: "https://example.com/odd", Title: "Odd"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.SchemaType{
		"https://example.com/post": domain.TypeArticle,
		"https://example.com/shop": domain.TypeProduct,
	}, got)
}

func TestSuggestTypes_EmptyInput(t *testing.T) {
	t.Parallel()

	backend := &fakeCompleter{}
	c := newTestClient(backend)

	got, err := c.SuggestTypes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, backend.calls)
}

func TestSuggestTypes_UnparsableResponse(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeCompleter{response: "I cannot classify these pages."})

	_, err := c.SuggestTypes(context.Background(), []PageSummary{{URL: "https://example.com/"}})
	require.Error(t, err)

	var aiErr *Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, "suggest types", aiErr.Op)
}

func TestGenerate_StripsMarkdownFences(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeCompleter{response: "```json\n{\"@type\": \"Article\", \"headline\": \"X\"}\n```"})
	page := domain.NewPageRecord("https://example.com/post")
	page.SelectedSchemaType = domain.TypeArticle

	doc, err := c.Generate(context.Background(), page, nil)
	require.NoError(t, err)
	assert.Equal(t, "Article", doc["@type"])
}

func TestGenerate_EmptyDocumentFails(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeCompleter{response: "{}"})
	page := domain.NewPageRecord("https://example.com/post")

	_, err := c.Generate(context.Background(), page, nil)
	require.Error(t, err)
}

func TestAuditAndUpgrade_EmbedsExistingMarkup(t *testing.T) {
	t.Parallel()

	backend := &fakeCompleter{response: `{"@type": "Article", "headline": "Upgraded"}`}
	c := newTestClient(backend)

	page := domain.NewPageRecord("https://example.com/post")
	page.SelectedSchemaType = domain.TypeArticle
	page.ExistingSchema = map[string]any{"@type": "Article", "headline": "Old"}

	doc, err := c.AuditAndUpgrade(context.Background(), page, nil)
	require.NoError(t, err)
	assert.Equal(t, "Upgraded", doc["headline"])
	assert.Contains(t, backend.lastReq.Prompt, `"headline":"Old"`)
}

func TestDetectOpportunities(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeCompleter{response: `{"types": ["FAQPage", "Article", "Nonsense"]}`})

	// Only opportunity types survive the filter; Article is a primary
	// type and Nonsense is outside the enumeration entirely.
	got := c.DetectOpportunities(context.Background(), "Q: what is this? A: a FAQ.")
	assert.Equal(t, []domain.SchemaType{domain.TypeFAQPage}, got)
}

func TestDetectOpportunities_EmptyContentSkipsCall(t *testing.T) {
	t.Parallel()

	backend := &fakeCompleter{}
	c := newTestClient(backend)

	assert.Nil(t, c.DetectOpportunities(context.Background(), ""))
	assert.Zero(t, backend.calls)
}

func TestDetectOpportunities_FailureIsAdvisory(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeCompleter{err: fmt.Errorf("rate limited")})
	assert.Nil(t, c.DetectOpportunities(context.Background(), "some content"))
}

func TestExtractJSONObject(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		wantKey string
		wantErr bool
	}{
		{name: "bare object", raw: `{"a": 1}`, wantKey: "a"},
		{name: "fenced", raw: "```json\n{\"b\": 2}\n```", wantKey: "b"},
		{name: "surrounding prose", raw: `Here you go: {"c": 3} Hope that helps!`, wantKey: "c"},
		{name: "no object", raw: "sorry, no can do", wantErr: true},
		{name: "broken json", raw: `{"d": `, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			parsed, err := extractJSONObject(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, parsed, tc.wantKey)
		})
	}
}

func TestNew_RejectsMissingKeyAndUnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Provider: ProviderOpenAI}, nil, logger.NewNoop())
	require.Error(t, err)

	_, err = New(Config{Provider: Provider("balrog"), APIKey: "k"}, nil, logger.NewNoop())
	require.Error(t, err)
}

func TestAnthropicCompleter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "hello from the api"}]}`)
	}))
	defer server.Close()

	completer := newAnthropicCompleter("test-key", "some-model", server.Client())
	completer.baseURL = server.URL

	got, err := completer.Complete(context.Background(), completionRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello from the api", got)
}

func TestAnthropicCompleter_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"type": "authentication_error", "message": "invalid x-api-key"}}`)
	}))
	defer server.Close()

	completer := newAnthropicCompleter("bad-key", "some-model", server.Client())
	completer.baseURL = server.URL

	_, err := completer.Complete(context.Background(), completionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}
