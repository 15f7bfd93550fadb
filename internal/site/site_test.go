package site

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"
)

func render(t *testing.T, v View) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, v); err != nil {
		t.Fatalf("failed to render %s: %v", v.Page, err)
	}
	return buf.String()
}

func TestRenderHome(t *testing.T) {
	body := render(t, View{Page: "home", Title: "Home", Live: true, Content: DefaultContent()})

	for _, want := range []string{
		`data-page="home"`,
		`data-region="hero"`,
		`data-region="portfolio"`,
		`data-region="newsletter"`,
		`data-carousel-track`,
		`/assets/images/fantasyscene.png`,
		`data-counter="4"`,
		`Premium elements`,
		`data-intro="image"`,
		`<script src="/live.js" defer></script>`,
		`hi@johnny.ae`,
		`CONTACT`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected home page to contain %q", want)
		}
	}
}

func TestRenderHomeRevealCounts(t *testing.T) {
	body := render(t, View{Page: "home", Content: DefaultContent()})

	// hero 3 + portfolio 10 + newsletter 3, matching the live layouts
	if got := strings.Count(body, "data-reveal"); got != 16 {
		t.Errorf("expected 16 reveal elements, got %d", got)
	}
	if got := strings.Count(body, `class="slide"`); got != 5 {
		t.Errorf("expected 5 slides, got %d", got)
	}
}

func TestRenderArticles(t *testing.T) {
	body := render(t, View{Page: "articles", Title: "Articles", Live: true, Content: DefaultContent()})

	if strings.Contains(body, `data-region="portfolio"`) {
		t.Error("expected no portfolio region on articles")
	}
	for _, want := range []string{`data-intro="blog"`, `data-intro="subheader"`, `data-region="newsletter"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected articles page to contain %q", want)
		}
	}
}

func TestRenderAdmin(t *testing.T) {
	body := render(t, View{
		Page:    "admin",
		Title:   "Admin",
		Content: DefaultContent(),
		Data: AdminData{
			Total:       "1,204",
			Sources:     []AdminSource{{Source: "home", Count: "1,200"}},
			Subscribers: []AdminSubscriber{{Email: "a@example.com", Source: "home", Joined: "Jan 2, 2026"}},
		},
	})

	if strings.Contains(body, "/live.js") {
		t.Error("expected admin page without live script")
	}
	for _, want := range []string{"1,204 total", "a@example.com", "<td>1</td>"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected admin page to contain %q", want)
		}
	}
}

func TestRenderEscapes(t *testing.T) {
	content := DefaultContent()
	content.Footer.Name = "<script>x</script>"
	body := render(t, View{Page: "articles", Content: content})
	if strings.Contains(body, "<script>x</script>") {
		t.Error("expected footer name to be escaped")
	}
}

func TestRenderUnknownPage(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, View{Page: "missing"}); err == nil {
		t.Error("expected error for unknown page")
	}
}

func TestAssets(t *testing.T) {
	for _, name := range []string{"site.css", "images/artdoll.png", "images/icogo150.png"} {
		if _, err := fs.Stat(Assets(), name); err != nil {
			t.Errorf("expected asset %s: %v", name, err)
		}
	}
}

func TestDefaultContent(t *testing.T) {
	c := DefaultContent()
	if len(c.Menu) != 7 || c.Menu[0].Label != "HOME" || c.Menu[6].Label != "CONTACT" {
		t.Errorf("unexpected menu %+v", c.Menu)
	}
	want := []int{4, 20, 15, 30, 50}
	for i, s := range c.Stats {
		if s.Target != want[i] {
			t.Errorf("stat %d: expected target %d, got %d", i, want[i], s.Target)
		}
	}
}

func TestGenerateLiveScript(t *testing.T) {
	script := GenerateLiveScript("/live")

	for _, want := range []string{
		"var P='/live',N=20;",
		"IntersectionObserver",
		"type:'intersect'",
		"type:'nav'",
		"type:'subscribe'",
		"translateX(calc(-'+c.page+' * (100% + 16px)))",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("expected script to contain %q", want)
		}
	}
	if strings.Contains(script, "%!") {
		t.Error("script has a formatting error")
	}
}

// The live script's page stride assumes this gap between slides.
func TestCarouselTrackGap(t *testing.T) {
	css, err := fs.ReadFile(Assets(), "site.css")
	if err != nil {
		t.Fatalf("failed to read site.css: %v", err)
	}
	if !strings.Contains(string(css), ".carousel-track { display: flex; gap: 16px;") {
		t.Error("expected a 16px gap on the carousel track")
	}
}
