package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ---------------------------------------------------------------------------
// Catalog file format (TOML)
// ---------------------------------------------------------------------------

type widgetEntry struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
}

type catalogFile struct {
	Widget []widgetEntry `toml:"widget"`
}

const defaultCatalogTOML = `# Shopdash widget catalog
# Each [[widget]] declares a dashboard panel and its base grid footprint.
# width and height must be 1 or 2.

[[widget]]
id = "revenue"
name = "Revenue"
description = "Monthly revenue against target"
width = 2
height = 1

[[widget]]
id = "expenses"
name = "Expenses"
description = "Spend by category this month"
width = 1
height = 1

[[widget]]
id = "profit"
name = "Profit Margin"
description = "Gross margin across completed orders"
width = 1
height = 1

[[widget]]
id = "inventory"
name = "Inventory"
description = "Stock on hand by product"
width = 2
height = 2

[[widget]]
id = "materials"
name = "Materials"
description = "Filament and resin remaining per spool"
width = 1
height = 2

[[widget]]
id = "printers"
name = "Printers"
description = "Printer utilisation and queue depth"
width = 1
height = 1

[[widget]]
id = "pricing"
name = "Pricing"
description = "Unit cost and suggested price per product"
width = 2
height = 1

[[widget]]
id = "projects"
name = "Projects"
description = "Open projects by stage"
width = 2
height = 1

[[widget]]
id = "orders"
name = "Orders"
description = "Orders awaiting fulfilment"
width = 1
height = 1

[[widget]]
id = "low_stock"
name = "Low Stock"
description = "Items below reorder point"
width = 1
height = 1
`

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse([]byte(defaultCatalogTOML))
	if err != nil {
		panic(fmt.Sprintf("catalog: default catalog invalid: %v", err))
	}
	return c
}

// Parse decodes a TOML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	widgets := make([]Widget, 0, len(f.Widget))
	for _, e := range f.Widget {
		widgets = append(widgets, Widget{
			ID:          WidgetID(e.ID),
			Name:        e.Name,
			Description: e.Description,
			Base:        Dimension{W: e.Width, H: e.Height},
		})
	}
	return New(widgets)
}

// Load reads the catalog at path. An empty path or a missing file yields the
// built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// WriteDefault writes the built-in catalog to path unless a file already
// exists there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir catalog dir: %w", err)
	}
	return os.WriteFile(path, []byte(defaultCatalogTOML), 0o644)
}

// Encode renders c as a TOML catalog document.
func Encode(c *Catalog) ([]byte, error) {
	f := catalogFile{Widget: make([]widgetEntry, 0, c.Len())}
	for _, w := range c.widgets {
		f.Widget = append(f.Widget, widgetEntry{
			ID:          string(w.ID),
			Name:        w.Name,
			Description: w.Description,
			Width:       w.Base.W,
			Height:      w.Base.H,
		})
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}
