package ctdf

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

// Headway is a number of minutes between departures.
// Documents carry it as an integer, a numeric string or an ISO8601 duration (PT15M),
// anything else decodes as unset so the calendar default applies.
type Headway struct {
	Minutes int
	Valid   bool
}

func HeadwayOf(minutes int) Headway {
	return Headway{Minutes: minutes, Valid: true}
}

func (h *Headway) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	h.set(raw)
	return nil
}

func (h Headway) MarshalJSON() ([]byte, error) {
	if !h.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(h.Minutes)
}

func (h *Headway) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}

	h.set(raw)
	return nil
}

func (h Headway) MarshalYAML() (any, error) {
	if !h.Valid {
		return nil, nil
	}

	return h.Minutes, nil
}

func (h Headway) IsZero() bool {
	return !h.Valid
}

func (h *Headway) set(raw any) {
	*h = Headway{}

	switch value := raw.(type) {
	case float64:
		*h = HeadwayOf(int(value))
	case int:
		*h = HeadwayOf(value)
	case string:
		value = strings.TrimSpace(value)

		if minutes, err := strconv.Atoi(value); err == nil {
			*h = HeadwayOf(minutes)
			return
		}

		interval, err := iso8601.ParseISO8601(value)
		if err != nil {
			return
		}

		reference := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
		*h = HeadwayOf(int(interval.Shift(reference).Sub(reference).Minutes()))
	}
}
