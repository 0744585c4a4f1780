package shortcode

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitecore/internal/shortcode/parser"
	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// Validator checks tag definitions against the delimiters in use.
type Validator struct {
	delims parser.Delimiters
}

// NewValidator returns a Validator for the supplied delimiters.
func NewValidator(delims parser.Delimiters) *Validator {
	return &Validator{delims: delims}
}

// ValidateDefinition ensures the definition has a usable name, a closing name
// that the scanner can recognise, and a handler.
func (v *Validator) ValidateDefinition(def interfaces.TagDefinition) error {
	err := validation.ValidateStruct(&def,
		validation.Field(&def.Name, validation.Required, validation.By(v.nameRule)),
		validation.Field(&def.ClosingName, validation.By(v.closingRule(def.Name))),
		validation.Field(&def.Handler, validation.By(handlerRule)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, def.Name, err)
	}
	return nil
}

func (v *Validator) nameRule(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	if strings.HasPrefix(name, "/") {
		return errors.New("must not start with a slash")
	}
	if strings.ContainsRune(name, '=') {
		return errors.New("must not contain '='")
	}
	return v.tokenRule(name)
}

func (v *Validator) closingRule(name string) validation.RuleFunc {
	return func(value any) error {
		closing, _ := value.(string)
		if closing == "" {
			return nil
		}
		if closing == name {
			return errors.New("must differ from the tag name")
		}
		if closing == "/" {
			return errors.New("must name the tag")
		}
		return v.tokenRule(strings.TrimPrefix(closing, "/"))
	}
}

func (v *Validator) tokenRule(s string) error {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return errors.New("must not contain whitespace")
	}
	if strings.ContainsAny(s, `"'/`) {
		return errors.New("must not contain quotes or slashes")
	}
	if v.delims.Contains(s) {
		return errors.New("must not contain delimiter characters")
	}
	return nil
}

func handlerRule(value any) error {
	handler, _ := value.(interfaces.TagHandler)
	if handler == nil {
		return errors.New("is required")
	}
	return nil
}
