package models

import (
	"strconv"
	"strings"
)

const (
	VoteHome   = "home"
	VoteOffice = "office"
)

// Vote is a single stored vote record as read back from the KV store.
type Vote struct {
	UserID string
	Value  string
}

// OptionIndex parses the value written by the block action handler.
func (v Vote) OptionIndex() (int, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(v.Value))
	if err != nil {
		return 0, false
	}
	return idx, true
}

// LegacyIndex maps the home/office values of the old /api/vote handler
// onto the daily poll's option order.
func (v Vote) LegacyIndex() (int, bool) {
	switch strings.TrimSpace(v.Value) {
	case VoteHome:
		return 0, true
	case VoteOffice:
		return 1, true
	}
	return 0, false
}

// ParseActionValue reads the option index out of a button value such as
// "option_1".
func ParseActionValue(value string) (int, bool) {
	s, ok := strings.CutPrefix(value, "option_")
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return idx, true
}
