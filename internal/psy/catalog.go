// Package psy holds the catalog of psychological disorders and builds the
// summary of a selection for the medical record.
package psy

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"
)

// TableClass marks the catalog table in the reference page
const TableClass = "psy-table"

// ErrNoTable is returned when a page has no catalog table
var ErrNoTable = errors.New("no psy-table found")

// Disorder is one catalog row. Symptoms is HTML markup.
type Disorder struct {
	Name      string `yaml:"name" json:"name"`
	Symptoms  string `yaml:"symptoms" json:"symptoms"`
	Treatment string `yaml:"treatment" json:"treatment"`
}

// Catalog is the ordered list of known disorders
type Catalog []Disorder

// LoadYAML reads a catalog written as a YAML list
func LoadYAML(r io.Reader) (Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	for i := range c {
		c[i].Name = strings.TrimSpace(c[i].Name)
		c[i].Treatment = strings.TrimSpace(c[i].Treatment)
		if c[i].Name == "" {
			c[i].Name = "Ligne " + strconv.Itoa(i+1)
		}
	}
	return c, nil
}

// ParseTable scrapes the catalog from the reference page. The disorder name
// is the first cell, symptoms the third and treatment the fourth.
func ParseTable(r io.Reader) (Catalog, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	table := find(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Table && hasClass(n, TableClass)
	})
	if table == nil {
		return nil, ErrNoTable
	}

	var rows []*html.Node
	for body := table.FirstChild; body != nil; body = body.NextSibling {
		if body.DataAtom != atom.Tbody {
			continue
		}
		for tr := body.FirstChild; tr != nil; tr = tr.NextSibling {
			if tr.DataAtom == atom.Tr {
				rows = append(rows, tr)
			}
		}
	}

	c := make(Catalog, 0, len(rows))
	for i, tr := range rows {
		cells := cellsOf(tr)
		d := Disorder{Name: "Ligne " + strconv.Itoa(i+1)}
		if len(cells) > 0 {
			if name := strings.TrimSpace(textOf(cells[0])); name != "" {
				d.Name = name
			}
		}
		if len(cells) > 2 {
			d.Symptoms = strings.TrimSpace(innerHTML(cells[2]))
		}
		if len(cells) > 3 {
			d.Treatment = strings.TrimSpace(textOf(cells[3]))
		}
		c = append(c, d)
	}
	return c, nil
}

// Lookup returns the disorder with the given name
func (c Catalog) Lookup(name string) (Disorder, bool) {
	name = strings.TrimSpace(name)
	for _, d := range c {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Disorder{}, false
}

// Names lists the disorder names in catalog order
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, d := range c {
		names[i] = d.Name
	}
	return names
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func cellsOf(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Td || c.DataAtom == atom.Th {
			cells = append(cells, c)
		}
	}
	return cells
}

func textOf(n *html.Node) string {
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

func innerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}
