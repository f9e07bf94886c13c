package goquery_test

import (
	"testing"

	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://gesp.ccf.org.cn/101/1010/index.html"

func urls(links []docgrab.CandidateLink) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.URL)
	}
	return out
}

func TestExtractor_Extract_Anchors(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative document link", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="/docs/2024/GESP_2024_03.pdf">2024年3月真题</a></body></html>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, docgrab.CandidateLink{
			URL:     "https://gesp.ccf.org.cn/docs/2024/GESP_2024_03.pdf",
			Text:    "2024年3月真题",
			Channel: docgrab.ChannelAnchor,
		}, links[0])
	})

	t.Run("selects by keyword in text", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/view?id=55">2023年9月真题</a>
			<a href="/news/1.html">新闻</a>
			<a href="detail/7.html">查看详情</a>
		</body></html>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://gesp.ccf.org.cn/view?id=55",
			"https://gesp.ccf.org.cn/101/1010/detail/7.html",
		}, urls(links))
	})

	t.Run("matches extension in query case-insensitively", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/download?file=Paper.PDF">download</a>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://gesp.ccf.org.cn/download?file=Paper.PDF"}, urls(links))
	})

	t.Run("skips non-http and self links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="javascript:void(0)">详情</a>
			<a href="mailto:a@example.com?subject=x.pdf">mail</a>
			<a href="#top">真题</a>
			<a href="">真题</a>
		</body></html>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("strips fragments for deduplication", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/a.pdf#page=2">first</a><a href="/a.pdf">second</a>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://gesp.ccf.org.cn/a.pdf", links[0].URL)
		assert.Equal(t, "first", links[0].Text)
	})

	t.Run("custom keywords replace defaults", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/x">Download</a><a href="/y">真题</a>`

		links, err := goquery.NewExtractor(goquery.WithKeywords("Download")).Extract(html, pageURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://gesp.ccf.org.cn/x"}, urls(links))
	})
}

func TestExtractor_Extract_ScriptStrings(t *testing.T) {
	t.Parallel()

	t.Run("array literal yields only the document", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><script>var x = ["report.pdf", "notes.txt"];</script></body></html>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://gesp.ccf.org.cn/101/1010/report.pdf", links[0].URL)
		assert.Equal(t, goquery.ScriptText, links[0].Text)
		assert.Equal(t, docgrab.ChannelScriptString, links[0].Channel)
	})

	t.Run("single-quoted absolute URL", func(t *testing.T) {
		t.Parallel()

		html := `<script>load('https://cdn.example.com/files/a.pdf?v=2');</script>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn.example.com/files/a.pdf?v=2"}, urls(links))
	})

	t.Run("unescapes JSON-escaped slashes", func(t *testing.T) {
		t.Parallel()

		html := `<script>var cfg = {"doc": "https:\/\/cdn.example.com\/files\/b.pdf"};</script>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn.example.com/files/b.pdf"}, urls(links))
	})

	t.Run("ignores external scripts", func(t *testing.T) {
		t.Parallel()

		html := `<script src="/static/app.pdf.js"></script>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestExtractor_Extract_ScriptJSON(t *testing.T) {
	t.Parallel()

	t.Run("collects values ending with the marker", func(t *testing.T) {
		t.Parallel()

		// The escaped dot hides the value from the string-literal channel.
		html := `<script>
var papers = [{"title": "2024年3月", "file": "/upload/2024_03\u002ePDF", "size": 3}, {"title": "notes", "file": "notes.txt"}];
</script>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, docgrab.CandidateLink{
			URL:     "https://gesp.ccf.org.cn/upload/2024_03.PDF",
			Text:    "JSON: file",
			Channel: docgrab.ChannelScriptJSON,
		}, links[0])
	})

	t.Run("swallows malformed payloads", func(t *testing.T) {
		t.Parallel()

		html := `<script>
var broken = [{file: 'a\u002epdf'}];
var ok = [{"url": "/b\u002epdf"}];
</script>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://gesp.ccf.org.cn/b.pdf", links[0].URL)
		assert.Equal(t, docgrab.ChannelScriptJSON, links[0].Channel)
	})

	t.Run("keeps key order within a record", func(t *testing.T) {
		t.Parallel()

		html := `<script>var docs = [{"zfile": "/b\u002epdf", "afile": "/a\u002epdf"}];</script>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, []string{
			"https://gesp.ccf.org.cn/b.pdf",
			"https://gesp.ccf.org.cn/a.pdf",
		}, urls(links))
		assert.Equal(t, "JSON: zfile", links[0].Text)
		assert.Equal(t, "JSON: afile", links[1].Text)
	})

	t.Run("ignores arrays of non-objects", func(t *testing.T) {
		t.Parallel()

		html := `<script>var n = [1, 2, 3]; var s = ["x.txt"];</script>`

		links, err := goquery.NewExtractor().Extract(html, pageURL)

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestExtractor_Extract_Deduplication(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="/files/2024_03.pdf">2024年3月真题</a>
		<script>
			var data = [{"pdf": "/files/2024_03.pdf"}];
			window.open("https://gesp.ccf.org.cn/files/2024_03.pdf");
			var more = "/files/2024_06.pdf";
		</script>
	</body></html>`

	links, err := goquery.NewExtractor().Extract(html, pageURL)

	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, docgrab.CandidateLink{
		URL:     "https://gesp.ccf.org.cn/files/2024_03.pdf",
		Text:    "2024年3月真题",
		Channel: docgrab.ChannelAnchor,
	}, links[0])
	assert.Equal(t, "https://gesp.ccf.org.cn/files/2024_06.pdf", links[1].URL)
}

func TestExtractor_Extract_CustomMarker(t *testing.T) {
	t.Parallel()

	html := `<a href="/a.pdf">a</a><a href="/b.docx">b</a><script>var f = "/c.DOCX";</script>`

	links, err := goquery.NewExtractor(goquery.WithMarker("docx"), goquery.WithKeywords()).Extract(html, pageURL)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://gesp.ccf.org.cn/b.docx",
		"https://gesp.ccf.org.cn/c.DOCX",
	}, urls(links))
}

func TestExtractor_Extract_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := goquery.NewExtractor().Extract("<a href='/a.pdf'>a</a>", "://bad")

	require.Error(t, err)
	assert.Equal(t, docgrab.EINVALID, docgrab.ErrorCode(err))
}
