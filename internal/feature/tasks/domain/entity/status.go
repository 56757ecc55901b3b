package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Status is the lifecycle state of a task. It is stored as an integer column.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
)

// ErrInvalidStatus is returned when a value is not one of the known statuses.
var ErrInvalidStatus = errors.New("invalid task status")

var statusLabels = [...]string{
	StatusPending:    "Pending",
	StatusInProgress: "InProgress",
	StatusCompleted:  "Completed",
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCompleted
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusLabels[s]
}

// ParseStatus accepts a label in any letter case or the numeric value 0, 1 or 2.
func ParseStatus(v string) (Status, error) {
	v = strings.TrimSpace(v)
	for i, label := range statusLabels {
		if strings.EqualFold(v, label) {
			return Status(i), nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && Status(n).Valid() {
		return Status(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, v)
}

// MarshalJSON encodes the status as its label.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either a label string or a bare number.
func (s *Status) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err == nil {
		parsed, err := ParseStatus(label)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, b)
	}
	if !Status(n).Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, n)
	}
	*s = Status(n)
	return nil
}
