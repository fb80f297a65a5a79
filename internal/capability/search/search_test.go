package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flynn-ai/baymax/internal/errors"
)

const resultsPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example.com">Sponsored</a>
</div>
<div class="result results_links results_links_deep web-result">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fdocs.python.org%2F3%2Ftutorial%2F&amp;rut=abc">The Python Tutorial</a></h2>
  <a class="result__snippet" href="#">Learn <b>Python</b> step by step.</a>
</div>
<div class="result results_links web-result">
  <h2><a class="result__a" href="https://realpython.com/">Real Python</a></h2>
  <a class="result__snippet" href="#">Tutorials for   every level.</a>
</div>
<div class="result results_links web-result">
  <h2><a class="result__a" href="https://example.com/third">Third</a></h2>
</div>
</body></html>`

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/html/", MaxResults: 2})
	results, err := c.Results(context.Background(), "python tutorials")
	require.NoError(t, err)
	assert.Equal(t, "python tutorials", gotQuery)

	require.Len(t, results, 2)
	assert.Equal(t, "The Python Tutorial", results[0].Title)
	assert.Equal(t, "https://docs.python.org/3/tutorial/", results[0].URL)
	assert.Equal(t, "Learn **Python** step by step.", results[0].Snippet)
	assert.Equal(t, "https://realpython.com/", results[1].URL)
	assert.Equal(t, "Tutorials for every level.", results[1].Snippet)

	text, err := c.Search(context.Background(), "python tutorials")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "1. **The Python Tutorial**\n   https://docs.python.org/3/tutorial/"))
	assert.Contains(t, text, "2. **Real Python**")
	assert.NotContains(t, text, "Sponsored")
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Search(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeCapabilityFailed))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "No results found.", Format(nil))
	assert.Equal(t, "1. **A**\n   https://a.example\n\n2. **B**\n   https://b.example\n   about b",
		Format([]Result{
			{Title: "A", URL: "https://a.example"},
			{Title: "B", URL: "https://b.example", Snippet: "about b"},
		}))
}

func TestResolveRedirect(t *testing.T) {
	assert.Equal(t, "https://go.dev/", resolveRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=x"))
	assert.Equal(t, "https://plain.example", resolveRedirect("https://plain.example"))
}
