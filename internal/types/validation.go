package types

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeyValidationConfig controls which keys the facade accepts before talking to Redis.
type KeyValidationConfig struct {
	ReservedPatterns  []string
	MaxKeyLength      int
	AllowEmpty        bool
	AllowControlChars bool
	AllowWhitespace   bool
}

// DefaultKeyValidationConfig caps keys at 1024 bytes and allows plain spaces.
func DefaultKeyValidationConfig() KeyValidationConfig {
	return KeyValidationConfig{
		MaxKeyLength:    1024,
		AllowWhitespace: true,
	}
}

// keyRule inspects a caller-supplied name. what is "key" or "pattern" and
// only shapes the message.
type keyRule func(what, s string) error

// KeyValidator checks keys and SCAN patterns. Both are checked before the
// configured prefix is applied.
type KeyValidator struct {
	config KeyValidationConfig
	rules  []keyRule
}

func NewKeyValidator(config KeyValidationConfig) *KeyValidator {
	v := &KeyValidator{config: config}

	if config.MaxKeyLength > 0 {
		v.rules = append(v.rules, maxLength(config.MaxKeyLength))
	}
	v.rules = append(v.rules, validUTF8)
	if !config.AllowControlChars || !config.AllowWhitespace {
		v.rules = append(v.rules, characters(config.AllowControlChars, config.AllowWhitespace))
	}
	if len(config.ReservedPatterns) > 0 {
		v.rules = append(v.rules, reserved(config.ReservedPatterns))
	}
	return v
}

func invalid(what, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidKey, what, fmt.Sprintf(format, args...))
}

func maxLength(limit int) keyRule {
	return func(what, s string) error {
		if len(s) > limit {
			return invalid(what, "is %d bytes, limit is %d", len(s), limit)
		}
		return nil
	}
}

func validUTF8(what, s string) error {
	if !utf8.ValidString(s) {
		return invalid(what, "is not valid UTF-8")
	}
	return nil
}

func characters(allowControl, allowSpace bool) keyRule {
	return func(what, s string) error {
		for i, r := range s {
			if !allowControl && (r < 0x20 || r == 0x7f) {
				return invalid(what, "has control character %U at byte %d", r, i)
			}
			if !allowSpace && unicode.IsSpace(r) {
				return invalid(what, "has whitespace at byte %d", i)
			}
		}
		return nil
	}
}

func reserved(fragments []string) keyRule {
	return func(what, s string) error {
		for _, frag := range fragments {
			if strings.Contains(s, frag) {
				return invalid(what, "uses reserved fragment %q", frag)
			}
		}
		return nil
	}
}

func (v *KeyValidator) apply(what, s string) error {
	for _, rule := range v.rules {
		if err := rule(what, s); err != nil {
			return err
		}
	}
	return nil
}

// Validate returns an error wrapping ErrInvalidKey when key breaks a rule.
func (v *KeyValidator) Validate(key string) error {
	if key == "" {
		if v.config.AllowEmpty {
			return nil
		}
		return invalid("key", "is empty")
	}
	return v.apply("key", key)
}

// ValidateAll stops at the first invalid key.
func (v *KeyValidator) ValidateAll(keys []string) error {
	for _, key := range keys {
		if err := v.Validate(key); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePattern checks a glob for SCAN MATCH. Patterns are never empty
// and must not end in an unfinished escape or bracket class; otherwise the
// key rules apply to the pattern text.
func (v *KeyValidator) ValidatePattern(pattern string) error {
	if pattern == "" {
		return invalid("pattern", "is empty")
	}
	if err := globShape(pattern); err != nil {
		return err
	}
	return v.apply("pattern", pattern)
}

func globShape(pattern string) error {
	inClass := false
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			if i == len(pattern)-1 {
				return invalid("pattern", "ends with a bare escape")
			}
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		}
	}
	if inClass {
		return invalid("pattern", "has an unclosed [ class")
	}
	return nil
}
