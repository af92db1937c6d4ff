// Package kv holds the string key-value stores poll metadata and votes live in.
package kv

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// ErrMalformedReply marks a store reply that could not be understood, as
// opposed to a store that could not be reached.
var ErrMalformedReply = errors.New("malformed kv reply")

// Store is the subset of key-value operations the handlers need.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	// Keys lists every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// LastSegment returns the part of a key after its final colon.
func LastSegment(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}

func sortedKeys(keys []string) []string {
	sort.Strings(keys)
	return keys
}
