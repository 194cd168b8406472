package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
)

// Catalog is an ordered, read-only product list.
type Catalog struct {
	products []model.Product
}

// New sorts products by key so the rendered text never depends on input order.
func New(products []model.Product) *Catalog {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return &Catalog{products: sorted}
}

// Default returns the catalog seeded with MockProducts.
func Default() *Catalog {
	return New(MockProducts)
}

// Products returns a copy of the catalog entries.
func (c *Catalog) Products() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Text serializes the catalog for the system prompt, one product per line.
func (c *Catalog) Text() string {
	var b strings.Builder
	for i, p := range c.products {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s (%s): $%s. %s", p.Name, p.Key, formatPrice(p.Price), p.Description)
	}
	return b.String()
}

// formatPrice renders whole dollars with thousands separators.
func formatPrice(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + formatPrice(-n)
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var MockProducts = []model.Product{
	{
		Key:         "desktop printer",
		Name:        "Form 4 Complete Package",
		Price:       5849,
		Description: "High-speed desktop SLA printer with ±35 micron accuracy, ideal for prototyping and dental applications. Includes Form Wash, Form Cure, resin tank, build platform, and 1-year Pro Service Plan.",
	},
	{
		Key:         "benchtop printer",
		Name:        "Form 4L Complete Package",
		Price:       20399,
		Description: "Large-format SLA printer with 345×145×295 mm build volume and ±25 micron accuracy. Suited for production-size prototypes. Includes Form Wash L, Form Cure L, resin pumping system, and 1-year Pro Service Plan.",
	},
	{
		Key:         "sls printer",
		Name:        "Fuse 1+ 30W Complete Package",
		Price:       54241,
		Description: "Industrial SLS 3D printer for durable nylon parts with no support structures. Includes Fuse 1+ 30W printer, Fuse Sift powder recovery station, Fuse Blast cleaning station, and post-processing tools.",
	},
}
