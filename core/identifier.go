package core

import "strings"

// Identifiers name stored records as "<table>:<local-key>". The table
// segment doubles as a type tag: readers resolve the concrete type of a
// record from the prefix alone, without consulting a separate registry
// keyed off the storage layer. The segment is never validated at write
// time, only interpreted at read time.

// TableOf returns the table segment of an identifier, the substring
// before the first separator. An identifier without a separator is
// returned whole.
func TableOf(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[:i]
	}
	return id
}

// KeyOf returns the local-key segment of an identifier, or "" when the
// identifier carries no separator.
func KeyOf(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	return ""
}

// Join builds an identifier from a table name and a local key.
func Join(table, key string) string {
	return table + ":" + key
}
