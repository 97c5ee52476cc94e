package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventTimeLayout is the layout used to serialize the event log timestamps.
const EventTimeLayout = "2006-01-02 15:04:05"

// EventTime is the timestamp of a logged event (SLA breaches, failovers). It is
// serialized with EventTimeLayout in UTC.
type EventTime struct {
	time.Time
}

func (t EventTime) String() string { return t.UTC().Format(EventTimeLayout) }

func (t EventTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *EventTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.parse(s)
}

func (t EventTime) MarshalYAML() (any, error) {
	return t.String(), nil
}

func (t *EventTime) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return t.parse(s)
}

func (t *EventTime) parse(s string) error {
	pt, err := time.ParseInLocation(EventTimeLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid event time %q: %w", s, err)
	}
	t.Time = pt
	return nil
}
