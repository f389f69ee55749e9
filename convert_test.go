package html2textile

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	out, err := ConvertString(src, opts...)
	require.NoError(t, err)
	return out
}

func TestConvertScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"paragraph", "<p>Hello   world</p>", "\r\n\r\np. Hello world"},
		{"heading class", `<h2 class="intro">Title</h2>`, "\r\n\r\nh2(intro). Title"},
		{"link", `<a href="http://x.com">link</a>`, ` "link":http://x.com `},
		{"list", "<ul><li>one</li><li>two</li></ul>", "\r\n* one\r\n* two"},
		{"entity", "Some &amp; text", "Some & text"},
		{"image", `<img src="pic.png"/>`, " !pic.png! "},
		{"unclosed image", `<img src="pic.png">after`, " !pic.png! after"},
		{"blockquote", "<blockquote>q</blockquote>", "\r\n\r\nbq. q"},
		{"curly quotes", "say&#8220;hi&#8221;now", `say "hi" now`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, convert(t, tc.in))
		})
	}
}

func TestConvertPlainText(t *testing.T) {
	assert.Equal(t, " just some text ", convert(t, "  just\n\nsome   text\t"))
	assert.Equal(t, "", convert(t, ""))
	assert.Equal(t, "", convert(t, " \n\t "))
	assert.Equal(t, "\u00a0", convert(t, "\u00a0"))
	assert.Equal(t, " *a* \u00a0 _b_ ", convert(t, "<b>a</b>\u00a0<i>b</i>"))
}

func TestNormalizeSpaceIdempotent(t *testing.T) {
	for _, s := range []string{"a  b", " \t x\n\ny ", "", "plain"} {
		once := normalizeSpace(s)
		assert.Equal(t, once, normalizeSpace(once))
	}
}

func TestConvertLenientRecovers(t *testing.T) {
	assert.Equal(t, "\r\n\r\np. open", convert(t, "<p>open"))
	assert.Equal(t, "text", convert(t, "</p>text"))
}

func TestConvertStrict(t *testing.T) {
	_, err := ConvertString("<p>open", WithStrict(true))
	require.ErrorIs(t, err, ErrIncompleteDocument)

	_, err = ConvertString("</p>text", WithStrict(true))
	require.ErrorIs(t, err, ErrInvariantViolation)

	out, err := ConvertString("<p>ok</p>", WithStrict(true))
	require.NoError(t, err)
	assert.Equal(t, "\r\n\r\np. ok", out)
}

func TestConvertAllowList(t *testing.T) {
	list := AllowList{Tags: []string{"pre"}, Attributes: []string{"lang"}}
	out := convert(t, `<pre lang="go" class="x">code</pre>`, WithAllowList(list))
	assert.Equal(t, `<pre lang="go">code</pre>`, out)
}

func TestConvertDecodesCharset(t *testing.T) {
	var out bytes.Buffer
	err := Convert(ConvertRequest{
		Reader:      bytes.NewReader([]byte("<p>caf\xe9</p>")),
		Writer:      &out,
		ContentType: "text/html; charset=iso-8859-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "\r\n\r\np. café", out.String())
}

func TestConvertRejectsBinary(t *testing.T) {
	var out bytes.Buffer
	err := Convert(ConvertRequest{
		Reader: bytes.NewReader([]byte("<p>\x00</p>")),
		Writer: &out,
	})
	require.ErrorIs(t, err, ErrBinaryInput)
	assert.Zero(t, out.Len())
}

func TestConvertRequiresReaderAndWriter(t *testing.T) {
	require.Error(t, Convert(ConvertRequest{Writer: &bytes.Buffer{}}))
	require.Error(t, Convert(ConvertRequest{Reader: strings.NewReader("x")}))
}

func TestHTTPConvert(t *testing.T) {
	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<b>hi</b>"))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := HTTPConvert(context.Background(), HTTPConvertRequest{URL: srv.URL, Writer: &out})
	require.NoError(t, err)
	assert.Equal(t, " *hi* ", out.String())
	assert.Contains(t, accept, "text/html")

	err = HTTPConvert(context.Background(), HTTPConvertRequest{URL: srv.URL + "/missing", Writer: &out})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	err = HTTPConvert(context.Background(), HTTPConvertRequest{URL: "ftp://example.com/x", Writer: &out})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}
