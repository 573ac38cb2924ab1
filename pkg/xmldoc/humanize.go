package xmldoc

import (
	"html"
	"regexp"
	"strings"
)

// Humanizer turns the raw inner markup of a documentation element into
// display text.
type Humanizer interface {
	Humanize(raw string) string
}

// HumanizerFunc adapts a function to the Humanizer interface.
type HumanizerFunc func(raw string) string

// Humanize calls f(raw).
func (f HumanizerFunc) Humanize(raw string) string { return f(raw) }

// DefaultHumanizer applies Humanize.
var DefaultHumanizer Humanizer = HumanizerFunc(Humanize)

var (
	refTagPattern        = regexp.MustCompile(`<(?:see|paramref|typeparamref) (name|cref|langword)="(?:[TPFME]:)?([^"]+?)" ?/>`)
	hrefTagPattern       = regexp.MustCompile(`<see href="([^"]*)">(.*?)</see>`)
	codeTagPattern       = regexp.MustCompile(`<c>(.+?)</c>`)
	multilineCodePattern = regexp.MustCompile(`(?s)<code>(.+?)</code>`)
	paraTagPattern       = regexp.MustCompile(`(?s)<para>(.+?)</para>`)
)

// Humanize normalises indentation, rewrites the common inline tags into
// Markdown-ish text and finally decodes XML entities. Entities are decoded
// last so that escaped angle brackets are not mistaken for tags.
func Humanize(raw string) string {
	text := normalizeIndentation(raw)
	text = refTagPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := refTagPattern.FindStringSubmatch(m)
		display := sub[2]
		if sub[1] == "cref" {
			display = shortName(display)
		}
		return display
	})
	text = hrefTagPattern.ReplaceAllString(text, "[$2]($1)")
	text = codeTagPattern.ReplaceAllString(text, "`$1`")
	text = multilineCodePattern.ReplaceAllString(text, "```$1```")
	text = paraTagPattern.ReplaceAllString(text, "<br>$1")
	return html.UnescapeString(text)
}

// shortName drops the namespace and parameter list from a cref target:
// "Acme.Api.Widget" -> "Widget", "Acme.Api.Repo.Get(System.Int32)" -> "Get".
func shortName(cref string) string {
	if paren := strings.IndexByte(cref, '('); paren >= 0 {
		cref = cref[:paren]
	}
	if dot := strings.LastIndexByte(cref, '.'); dot >= 0 {
		cref = cref[dot+1:]
	}
	return cref
}

// normalizeIndentation trims blank leading and trailing lines and strips the
// indentation common to the remaining lines.
func normalizeIndentation(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[start:end]

	pad := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if pad < 0 || n < pad {
			pad = n
		}
	}

	for i, l := range lines {
		if len(l) >= pad && pad > 0 {
			lines[i] = l[pad:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.Join(lines, "\n")
}
