package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// Template is one seed-defined checklist item. Keys are stable across seed
// versions so persisted task state can reference them.
type Template struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	DueOffsetDays int    `json:"due_offset_days"`
	Window        string `json:"window"`
	Category      string `json:"category"`
}

// Window is a named time bucket used to group tasks for display.
type Window struct {
	Label string `json:"label"`
}

// BudgetDefault is the recommended share of the total budget for one
// category.
type BudgetDefault struct {
	Category string
	Percent  decimal.Decimal
}

// BudgetDefaults preserves the document order of the seed's percent map so
// the derived category list renders in a deterministic order.
type BudgetDefaults []BudgetDefault

func (b *BudgetDefaults) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("budget defaults: expected object, got %v", tok)
	}

	var out BudgetDefaults
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("budget defaults: bad key %v", keyTok)
		}
		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return fmt.Errorf("budget percent for %q: %w", name, err)
		}
		pct, err := decimal.NewFromString(num.String())
		if err != nil {
			return fmt.Errorf("budget percent for %q: %w", name, err)
		}
		out = append(out, BudgetDefault{Category: name, Percent: pct})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = out
	return nil
}

// Schema carries the seed's budget recommendations and window labels.
type Schema struct {
	BudgetDefaultsPercent BudgetDefaults    `json:"budget_defaults_percent"`
	Windows               map[string]Window `json:"windows"`
}

// Document is the full seed data file.
type Document struct {
	Schema    Schema     `json:"schema"`
	Templates []Template `json:"task_templates"`
}

// Load reads and parses the seed document. The document is required for
// every page; callers treat a failure here as fatal.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a seed document and checks the parts nothing can work
// without.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Templates) == 0 {
		return nil, fmt.Errorf("no task templates")
	}
	seen := make(map[string]bool, len(doc.Templates))
	for _, t := range doc.Templates {
		if t.Key == "" {
			return nil, fmt.Errorf("task template %q has no key", t.Title)
		}
		if seen[t.Key] {
			return nil, fmt.Errorf("duplicate task template key %q", t.Key)
		}
		seen[t.Key] = true
	}
	return &doc, nil
}

// TemplateByKey looks up a template by its stable key.
func (d *Document) TemplateByKey(key string) (Template, bool) {
	for _, t := range d.Templates {
		if t.Key == key {
			return t, true
		}
	}
	return Template{}, false
}

// WindowLabel resolves a window id to its human label, falling back to the
// raw id when the seed does not define one.
func (d *Document) WindowLabel(id string) string {
	if w, ok := d.Schema.Windows[id]; ok && w.Label != "" {
		return w.Label
	}
	return id
}
