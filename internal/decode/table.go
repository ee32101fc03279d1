package decode

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/quakewatch/quake-data-etl/internal/domain"
)

// decodeTable extracts the first <table> from a markup document and yields
// one RawRow per body row, cell texts in document order. Header rows (cells
// in <th>) are skipped; rows with fewer cells than the variant expects are
// dropped and counted.
func decodeTable(doc []byte, v domain.Variant) (Result, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNoListing, err)
	}

	table := findFirst(root, "table")
	if table == nil {
		return Result{}, fmt.Errorf("%w: no table element", ErrNoListing)
	}

	var res Result
	ordinal := 0
	for _, tr := range findAll(table, "tr") {
		cells := cellTexts(tr)
		if cells == nil {
			continue // header row, th cells only
		}
		if len(cells) < v.TableColumns {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, domain.RawRow{
			Fields:  cells,
			Line:    strings.Join(cells, " | "),
			Ordinal: ordinal,
		})
		ordinal++
	}
	return res, nil
}

// listingText returns the plain text a line-based decoder should split. The
// primary source serves the listing inside a <pre> element of a full HTML
// page, so a markup document yields the first pre block's text; markup with
// no pre block carries no listing at all. Non-markup documents pass through
// unchanged.
func listingText(doc []byte) (string, error) {
	if !strings.HasPrefix(strings.TrimSpace(string(doc)), "<") {
		return string(doc), nil
	}
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoListing, err)
	}
	pre := findFirst(root, "pre")
	if pre == nil {
		return "", fmt.Errorf("%w: markup without a pre block", ErrNoListing)
	}
	return nodeText(pre), nil
}

// cellTexts returns the trimmed text of each <td> in a row, or nil when the
// row has no data cells.
func cellTexts(tr *html.Node) []string {
	var cells []string
	for _, td := range findAll(tr, "td") {
		cells = append(cells, strings.Join(strings.Fields(nodeText(td)), " "))
	}
	return cells
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
