package details

import (
	"html"
	"strings"

	"poolDetails/internal/model"
)

const (
	tooltipSeparator      = " | "
	tooltipDescriptionMax = 100
	ellipsis              = "..."
)

// RenderHTML returns the contacts fragment for a pool, or "" if it is unknown.
// Website and Twitter are left out when skipQuickLinks is set.
func (s *Service) RenderHTML(poolAccountID string, skipQuickLinks bool) string {
	info := s.Format(poolAccountID)
	if info == nil {
		return ""
	}
	return ContactsHTML(*info, skipQuickLinks)
}

// RenderTooltip returns the short tooltip text for a pool. The second value
// is false if the pool is unknown.
func (s *Service) RenderTooltip(poolAccountID string) (string, bool) {
	info := s.Format(poolAccountID)
	if info == nil {
		return "", false
	}
	return TooltipText(*info), true
}

// ContactsHTML builds the contacts fragment of a display record.
func ContactsHTML(info model.PoolInfo, skipQuickLinks bool) string {
	var b strings.Builder
	b.WriteString(`<div class="pool-contacts">`)

	if name := value(info.Name); name != "" {
		item(&b, "<strong>"+esc(name)+"</strong>")
	}

	if desc := value(info.Description); desc != "" {
		b.WriteString(`<div class="contact-item description">`)
		b.WriteString(esc(desc))
		b.WriteString(`</div>`)
	}

	city, country := value(info.City), value(info.Country)
	if city != "" || country != "" {
		location := make([]string, 0, 2)
		if city != "" {
			location = append(location, city)
		}
		if country != "" {
			location = append(location, country)
		}
		marker := `<i class="fas fa-map-marker-alt"></i> `
		if code := value(info.CountryCode); code != "" {
			marker += `<span class="flag-icon flag-icon-` + esc(strings.ToLower(code)) + `"></span> `
		}
		item(&b, marker+esc(strings.Join(location, ", ")))
	}

	if url := value(info.URL); url != "" && !skipQuickLinks {
		item(&b, `<i class="fas fa-globe"></i> `+link(WebsiteHref(url), url, true))
	}

	if email := value(info.Email); email != "" {
		item(&b, `<i class="fas fa-envelope"></i> `+link("mailto:"+email, email, false))
	}

	if twitter := value(info.Twitter); twitter != "" && !skipQuickLinks {
		handle := stripHandle(twitter)
		item(&b, `<i class="fab fa-twitter"></i> `+link("https://twitter.com/"+handle, "@"+handle, true))
	}

	if telegram := value(info.Telegram); telegram != "" {
		handle := stripHandle(telegram)
		item(&b, `<i class="fab fa-telegram"></i> `+link("https://t.me/"+handle, "@"+handle, true))
	}

	if discord := value(info.Discord); discord != "" {
		item(&b, `<i class="fab fa-discord"></i> `+esc(discord))
	}

	b.WriteString(`</div>`)
	return b.String()
}

// TooltipText joins name, country and a shortened description.
func TooltipText(info model.PoolInfo) string {
	parts := make([]string, 0, 3)
	if name := value(info.Name); name != "" {
		parts = append(parts, name)
	}
	if country := value(info.Country); country != "" {
		parts = append(parts, country)
	}
	if desc := value(info.Description); desc != "" {
		parts = append(parts, truncate(desc, tooltipDescriptionMax))
	}
	return strings.Join(parts, tooltipSeparator)
}

// WebsiteHref prefixes http:// to a URL without an http or https scheme.
func WebsiteHref(url string) string {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return url
	}
	return "http://" + url
}

func item(b *strings.Builder, inner string) {
	b.WriteString(`<div class="contact-item">`)
	b.WriteString(inner)
	b.WriteString(`</div>`)
}

func link(href, text string, newTab bool) string {
	target := ""
	if newTab {
		target = ` target="_blank"`
	}
	return `<a href="` + esc(href) + `"` + target + `>` + esc(text) + `</a>`
}

func stripHandle(handle string) string {
	return strings.TrimPrefix(handle, "@")
}

// truncate cuts s to limit runes and appends an ellipsis when it was longer.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func esc(s string) string {
	return html.EscapeString(s)
}
