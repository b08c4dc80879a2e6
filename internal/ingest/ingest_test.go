package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func buildPPTX(t *testing.T, slides map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for path, body := range slides {
		f, err := w.Create(path)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := f.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const slideXML = `<?xml version="1.0"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
       xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cSld><p:spTree>
    <p:sp><p:txBody>
      <a:p><a:r><a:t>%s</a:t></a:r></a:p>
    </p:txBody></p:sp>
  </p:spTree></p:cSld>
</p:sld>`

func TestPPTXExtractsSlidesInOrder(t *testing.T) {
	t.Parallel()

	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide2.xml":  strings.Replace(slideXML, "%s", "Second slide", 1),
		"ppt/slides/slide1.xml":  strings.Replace(slideXML, "%s", "First slide", 1),
		"ppt/slides/slide10.xml": strings.Replace(slideXML, "%s", "Tenth slide", 1),
		"ppt/notes/note1.xml":    "<x>ignored</x>",
	})

	text, err := PPTX(data)
	if err != nil {
		t.Fatalf("PPTX failed: %v", err)
	}

	first := strings.Index(text, "First slide")
	second := strings.Index(text, "Second slide")
	tenth := strings.Index(text, "Tenth slide")
	if first < 0 || second < 0 || tenth < 0 {
		t.Fatalf("missing slide text in output:\n%s", text)
	}
	if !(first < second && second < tenth) {
		t.Errorf("slides out of order: %d %d %d", first, second, tenth)
	}
	if !strings.Contains(text, "--- Slide 1 ---") {
		t.Errorf("missing slide header in output:\n%s", text)
	}
	if strings.Contains(text, "ignored") {
		t.Errorf("non-slide content leaked into output")
	}
}

func TestPPTXNoText(t *testing.T) {
	t.Parallel()

	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": `<p:sld xmlns:p="x"></p:sld>`,
	})
	text, err := PPTX(data)
	if err != nil {
		t.Fatalf("PPTX failed: %v", err)
	}
	if text != "No text found in PowerPoint." {
		t.Errorf("got %q", text)
	}
}

func TestPPTXRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := PPTX([]byte("not a zip archive")); err == nil {
		t.Error("expected error for non-zip input")
	}
}

func TestPDFRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := PDF([]byte("not a pdf")); err == nil {
		t.Error("expected error for non-pdf input")
	}
}

func TestScrapePrefersMainContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<nav>Navigation junk</nav>
			<main><p>Gradient descent minimises a loss function.</p></main>
			<footer>Footer junk</footer>
			<script>var x = 1;</script>
		</body></html>`))
	}))
	defer srv.Close()

	text := NewURLScraper().Scrape(context.Background(), srv.URL)
	if !strings.Contains(text, "Gradient descent") {
		t.Errorf("main content missing: %q", text)
	}
	if strings.Contains(text, "Navigation junk") || strings.Contains(text, "Footer junk") || strings.Contains(text, "var x") {
		t.Errorf("boilerplate leaked into scrape: %q", text)
	}
}

func TestScrapeReportsErrorsAsText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	text := NewURLScraper().Scrape(context.Background(), srv.URL)
	if !strings.HasPrefix(text, "Error fetching URL:") {
		t.Errorf("got %q, want error-message string", text)
	}
}
