package tool

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Catalog is an ordered collection of tools exposed to the reasoning engine.
// Ordering is preserved so catalog descriptions are deterministic.
type Catalog struct {
	tools []Tool
	index map[string]Tool
}

// NewCatalog builds a catalog from the given tools. Later tools replace
// earlier ones with the same name.
func NewCatalog(tools ...Tool) *Catalog {
	c := &Catalog{index: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		c.Add(t)
	}
	return c
}

// Add registers a tool, replacing any existing tool with the same name.
func (c *Catalog) Add(t Tool) {
	if _, exists := c.index[t.Name()]; exists {
		for i, existing := range c.tools {
			if existing.Name() == t.Name() {
				c.tools[i] = t
				break
			}
		}
	} else {
		c.tools = append(c.tools, t)
	}
	c.index[t.Name()] = t
}

// Get returns the tool with the given name.
func (c *Catalog) Get(name string) (Tool, bool) {
	t, ok := c.index[name]
	return t, ok
}

// Tools returns the registered tools in registration order.
func (c *Catalog) Tools() []Tool {
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int { return len(c.tools) }

// Describe renders the serialized catalog handed to the reasoning engine:
// one line per tool with its name and JSON argument schema. The result is
// plain text; use EscapedDescribe when splicing it into template source.
func (c *Catalog) Describe() string {
	lines := make([]string, 0, len(c.tools))
	for _, t := range c.tools {
		schema, err := json.Marshal(t.Parameters())
		if err != nil {
			schema = []byte("{}")
		}
		lines = append(lines, fmt.Sprintf("Tool: %s, Schema: %s", t.Name(), schema))
	}
	return strings.Join(lines, "\n")
}

// EscapedDescribe is Describe with literal braces doubled, for callers that
// embed the catalog into the body of a template rather than passing it as
// data. Without the doubling a template engine would treat the schema braces
// as directives.
func (c *Catalog) EscapedDescribe() string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(c.Describe())
}
