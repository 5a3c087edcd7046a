package types

import (
	"encoding/json"
	"log/slog"
)

// SecretString keeps credentials out of logs and config dumps.
// String and MarshalJSON redact; Value returns the real text.
type SecretString struct {
	value string
}

func NewSecretString(value string) SecretString {
	return SecretString{value: value}
}

func (s SecretString) Value() string {
	return s.value
}

func (s SecretString) IsEmpty() bool {
	return s.value == ""
}

func (s SecretString) String() string {
	if s.IsEmpty() {
		return ""
	}
	return "[REDACTED]"
}

// LogValue keeps slog from printing the secret when passed as an attribute.
func (s SecretString) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

func (s SecretString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SecretString) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	s.value = value
	return nil
}
