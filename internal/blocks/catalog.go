package blocks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

var (
	ErrBlockTypeRequired = errors.New("blocks: block type required")
	ErrBlockTypeExists   = errors.New("blocks: block type already defined")
	ErrSpecInvalid       = errors.New("blocks: block spec invalid")
)

// Validate checks that the spec is internally consistent. Nested field and
// item specs are validated recursively.
func (s Spec) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Kind,
			validation.Required,
			validation.In(KindRichText, KindMarkdown, KindPlain, KindStream, KindStruct, KindList, KindOther),
		),
		validation.Field(&s.Fields, validation.When(s.Kind == KindStruct, validation.Required)),
		validation.Field(&s.Item, validation.When(s.Kind == KindList, validation.NotNil)),
		validation.Field(&s.Catalog, validation.When(s.Kind == KindStream, validation.NotNil)),
	)
}

// Catalog maps block type names to their specs. A catalog is filled at
// startup and read concurrently afterwards.
type Catalog struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewCatalog constructs an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{specs: make(map[string]Spec)}
}

// Define registers a block type.
func (c *Catalog) Define(name string, spec Spec) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlockTypeRequired
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSpecInvalid, name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.specs == nil {
		c.specs = make(map[string]Spec)
	}
	if _, exists := c.specs[name]; exists {
		return fmt.Errorf("%w: %s", ErrBlockTypeExists, name)
	}
	c.specs[name] = spec
	return nil
}

// Lookup returns the spec registered for a block type.
func (c *Catalog) Lookup(name string) (Spec, bool) {
	if c == nil {
		return Spec{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	spec, ok := c.specs[name]
	return spec, ok
}

// Names lists the registered block types in lexical order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) mustDefine(name string, spec Spec) {
	if err := c.Define(name, spec); err != nil {
		panic(err)
	}
}

// DefaultCatalog returns the block types of the site's body streams. Column
// blocks hold nested streams restricted to the nested_* block types.
func DefaultCatalog() *Catalog {
	nested := NewCatalog()
	nested.mustDefine("nested_paragraph", Text(interfaces.FormatRichText))
	nested.mustDefine("nested_markdown", Text(interfaces.FormatMarkdown))
	nested.mustDefine("nested_image", Other())
	nested.mustDefine("nested_docs", Other())
	nested.mustDefine("nested_page", Other())
	nested.mustDefine("nested_code", Other())
	nested.mustDefine("nested_text_snippet", Other())

	subSection := Struct(map[string]Spec{
		"title":   Other(),
		"content": Text(interfaces.FormatRichText),
	})

	core := NewCatalog()
	core.mustDefine("paragraph", Text(interfaces.FormatRichText))
	core.mustDefine("markdown", Text(interfaces.FormatMarkdown))
	core.mustDefine("image", Other())
	core.mustDefine("docs", Other())
	core.mustDefine("page", Other())
	core.mustDefine("code", Other())
	core.mustDefine("carousel", Other())
	core.mustDefine("icon_card_deck", Other())
	core.mustDefine("text_snippet", Other())
	core.mustDefine("tab", Struct(map[string]Spec{
		"tab_section": ListOf(subSection),
	}))
	core.mustDefine("pill", Struct(map[string]Spec{
		"pill_type":    Other(),
		"pill_section": ListOf(subSection),
	}))
	core.mustDefine("accordion", Struct(map[string]Spec{
		"accordion_type":    Other(),
		"accordion_section": ListOf(subSection),
	}))
	core.mustDefine("two_cols", Struct(map[string]Spec{
		"col_ratio":       Other(),
		"col_one_content": StreamOf(nested),
		"col_two_content": StreamOf(nested),
	}))
	return core
}
