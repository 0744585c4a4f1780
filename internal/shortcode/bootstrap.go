package shortcode

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// RegisterBuiltIns registers the built-in tag definitions on the provided registry.
// When names is empty, every built-in tag is registered.
func RegisterBuiltIns(registry interfaces.ShortcodeRegistry, names []string) error {
	if registry == nil {
		return fmt.Errorf("shortcode: registry is required")
	}

	builtins := BuiltInDefinitions()
	if len(names) == 0 {
		for _, def := range builtins {
			if err := registry.Register(def); err != nil {
				return err
			}
		}
		return nil
	}

	available := make(map[string]interfaces.TagDefinition, len(builtins))
	for _, def := range builtins {
		available[def.Name] = def
	}
	for _, name := range names {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		def, ok := available[key]
		if !ok {
			return fmt.Errorf("shortcode: built-in %q not found", name)
		}
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}
