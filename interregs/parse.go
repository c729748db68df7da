package interregs

import (
	"strings"

	"golang.org/x/net/html"
)

// searchHit is one row of a search result listing before expansion.
type searchHit struct {
	title   string
	href    string
	summary string
}

// resultClassFragments mark container elements holding one search hit.
var resultClassFragments = []string{"regulation", "result", "search-item", "document"}

// parseSearchResults walks the listing page and collects hits. Layouts
// vary between listing styles, so matching is by class fragment on any
// container element, with a bare-link sweep as last resort.
func parseSearchResults(body, baseURL string) []searchHit {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var hits []searchHit
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "div", "tr", "li", "article":
			if !classContainsAny(n, resultClassFragments) {
				return true
			}
			hit := searchHit{summary: collapseSpace(textContent(n))}
			if a := findFirst(n, "a"); a != nil {
				hit.title = collapseSpace(textContent(a))
				hit.href = absoluteURL(attrValue(a, "href"), baseURL)
			}
			if hit.title == "" {
				hit.title = firstWords(hit.summary, 12)
			}
			if hit.href != "" || len(hit.summary) > 100 {
				hits = append(hits, hit)
			}
			return false
		}
		return true
	})
	if len(hits) > 0 {
		return hits
	}

	// No recognisable containers: take document links directly.
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "a" {
			return true
		}
		href := attrValue(n, "href")
		if !strings.Contains(href, "regulation") && !strings.Contains(href, "document") {
			return true
		}
		hits = append(hits, searchHit{
			title: collapseSpace(textContent(n)),
			href:  absoluteURL(href, baseURL),
		})
		return false
	})
	return hits
}

// mainClassFragments mark the content column of a document page.
var mainClassFragments = []string{"content", "main", "regulation-text", "document-body"}

// extractMainContent returns the inner HTML of the document's content
// container, or the whole body when no container is recognised.
func extractMainContent(body string) string {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var best *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "main", "article":
			best = n
			return false
		case "div", "section":
			if classContainsAny(n, mainClassFragments) || attrValue(n, "id") == "content" {
				best = n
				return false
			}
		}
		return true
	})
	if best == nil {
		best = findFirst(root, "body")
	}
	if best == nil {
		return ""
	}

	var sb strings.Builder
	for child := best.FirstChild; child != nil; child = child.NextSibling {
		html.Render(&sb, child)
	}
	return sb.String()
}

// walk visits nodes depth-first. The visitor returns false to skip a
// node's subtree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(n *html.Node, tag string) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) bool {
		if found != nil {
			return false
		}
		if node.Type == html.ElementNode && node.Data == tag {
			found = node
			return false
		}
		return true
	})
	return found
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return false
		}
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteByte(' ')
		}
		return true
	})
	return sb.String()
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func classContainsAny(n *html.Node, fragments []string) bool {
	class := strings.ToLower(attrValue(n, "class"))
	if class == "" {
		return false
	}
	for _, f := range fragments {
		if strings.Contains(class, f) {
			return true
		}
	}
	return false
}

func absoluteURL(href, baseURL string) string {
	switch {
	case href == "" || strings.HasPrefix(href, "#"):
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return strings.TrimSuffix(baseURL, "/") + href
	default:
		return strings.TrimSuffix(baseURL, "/") + "/db/" + href
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
