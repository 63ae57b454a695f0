package details

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func fullPool() map[string]any {
	return map[string]any{
		"acme": map[string]any{
			"name":         "Acme Pool",
			"description":  "Reliable validator",
			"url":          "acme.example",
			"email":        "ops@acme.example",
			"twitter":      "@acmepool",
			"telegram":     "@acmechat",
			"discord":      "acme#1234",
			"country":      "Germany",
			"country_code": "DE",
			"city":         "Berlin",
		},
	}
}

func TestRenderTooltipTruncatesDescription(t *testing.T) {
	svc := newLoadedService(t, map[string]any{
		"acme": map[string]any{
			"name":        "Acme Pool",
			"country":     "DE",
			"description": strings.Repeat("x", 150),
			"twitter":     "@acme",
			"email":       "ops@acme.example",
			"url":         "https://acme.example",
		},
	})

	text, ok := svc.RenderTooltip("acme.poolv1.near")
	require.True(t, ok)
	require.Equal(t, "Acme Pool | DE | "+strings.Repeat("x", 100)+"...", text)
	require.NotContains(t, text, "acme.example")
	require.NotContains(t, text, "@acme")
}

func TestRenderTooltipOmitsMissingParts(t *testing.T) {
	svc := newLoadedService(t, map[string]any{
		"short":   map[string]any{"description": strings.Repeat("y", 100)},
		"named":   map[string]any{"name": "Named"},
		"nothing": map[string]any{"url": "x"},
	})

	text, ok := svc.RenderTooltip("short")
	require.True(t, ok)
	require.Equal(t, strings.Repeat("y", 100), text)

	text, ok = svc.RenderTooltip("named.near")
	require.True(t, ok)
	require.Equal(t, "Named", text)

	text, ok = svc.RenderTooltip("nothing")
	require.True(t, ok)
	require.Equal(t, "", text)

	_, ok = svc.RenderTooltip("unknown")
	require.False(t, ok)
}

func TestTruncateCountsRunes(t *testing.T) {
	desc := strings.Repeat("ü", 101)
	require.Equal(t, strings.Repeat("ü", 100)+"...", truncate(desc, 100))
	require.Equal(t, "abc", truncate("abc", 100))
}

func TestRenderHTMLFullRecord(t *testing.T) {
	svc := newLoadedService(t, fullPool())

	got := svc.RenderHTML("acme.poolv1.near", false)
	want := `<div class="pool-contacts">` +
		`<div class="contact-item"><strong>Acme Pool</strong></div>` +
		`<div class="contact-item description">Reliable validator</div>` +
		`<div class="contact-item"><i class="fas fa-map-marker-alt"></i> <span class="flag-icon flag-icon-de"></span> Berlin, Germany</div>` +
		`<div class="contact-item"><i class="fas fa-globe"></i> <a href="http://acme.example" target="_blank">acme.example</a></div>` +
		`<div class="contact-item"><i class="fas fa-envelope"></i> <a href="mailto:ops@acme.example">ops@acme.example</a></div>` +
		`<div class="contact-item"><i class="fab fa-twitter"></i> <a href="https://twitter.com/acmepool" target="_blank">@acmepool</a></div>` +
		`<div class="contact-item"><i class="fab fa-telegram"></i> <a href="https://t.me/acmechat" target="_blank">@acmechat</a></div>` +
		`<div class="contact-item"><i class="fab fa-discord"></i> acme#1234</div>` +
		`</div>`
	require.Equal(t, want, got)
}

func TestRenderHTMLSkipQuickLinks(t *testing.T) {
	svc := newLoadedService(t, fullPool())

	got := svc.RenderHTML("acme", true)
	require.NotContains(t, got, "fa-globe")
	require.NotContains(t, got, "twitter.com")
	require.Contains(t, got, "mailto:ops@acme.example")
	require.Contains(t, got, "https://t.me/acmechat")
	require.Contains(t, got, "acme#1234")
}

func TestRenderHTMLLocationWithoutCode(t *testing.T) {
	svc := newLoadedService(t, map[string]any{
		"acme": map[string]any{"country": "Germany"},
	})

	got := svc.RenderHTML("acme", false)
	require.Equal(t, `<div class="pool-contacts"><div class="contact-item"><i class="fas fa-map-marker-alt"></i> Germany</div></div>`, got)
}

func TestRenderHTMLEmptyRecord(t *testing.T) {
	svc := newLoadedService(t, map[string]any{"acme": map[string]any{}})

	require.Equal(t, `<div class="pool-contacts"></div>`, svc.RenderHTML("acme", false))
	require.Equal(t, "", svc.RenderHTML("unknown", false))
}

func TestRenderHTMLEscapesValues(t *testing.T) {
	svc := newLoadedService(t, map[string]any{
		"acme": map[string]any{"name": `<script>alert("x")</script>`},
	})

	got := svc.RenderHTML("acme", false)
	require.NotContains(t, got, "<script>")
	require.Contains(t, got, "&lt;script&gt;")
}

func TestWebsiteHref(t *testing.T) {
	require.Equal(t, "http://acme.example", WebsiteHref("acme.example"))
	require.Equal(t, "http://acme.example", WebsiteHref("http://acme.example"))
	require.Equal(t, "https://acme.example/path", WebsiteHref("https://acme.example/path"))
	require.Equal(t, "HTTPS://ACME.EXAMPLE", WebsiteHref("HTTPS://ACME.EXAMPLE"))
	require.Equal(t, "http://ftp://acme.example", WebsiteHref("ftp://acme.example"))
}

func TestRenderHTMLKeepsSchemeInLink(t *testing.T) {
	svc := newLoadedService(t, map[string]any{
		"acme": map[string]any{"url": "https://acme.example"},
	})

	got := svc.RenderHTML("acme", false)
	require.Contains(t, got, `<a href="https://acme.example" target="_blank">https://acme.example</a>`)
}
