package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so catalog files can spell durations as
// "5s" or "30s" instead of nanosecond counts.
type Duration time.Duration

// D returns the wrapped time.Duration
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

// String returns the duration in time.Duration notation
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML writes the duration in time.Duration notation
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts either a duration string or an integer
// millisecond count.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var asString string
	if err := value.Decode(&asString); err == nil {
		parsed, err := time.ParseDuration(asString)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", asString, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var asMillis int64
	if err := value.Decode(&asMillis); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(time.Duration(asMillis) * time.Millisecond)
	return nil
}

// MarshalJSON writes the duration in time.Duration notation
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string
func (d *Duration) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(asString)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", asString, err)
	}
	*d = Duration(parsed)
	return nil
}
