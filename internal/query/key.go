package query

import (
	"strconv"
	"strings"
)

// Key identifies one fetchable unit of server data: the resource name,
// optionally followed by an id or filter/pagination segments.
//
//	Key{"gallery-categories"}
//	Key{"news", "17"}
//	Key{"news", "page=2", "per_page=10"}
type Key []string

// Collection returns the key of a whole resource collection.
func Collection(resource string) Key {
	return Key{resource}
}

// Detail returns the key of a single record.
func Detail(resource string, id int64) Key {
	return Key{resource, strconv.FormatInt(id, 10)}
}

// String is the display form. It is ambiguous when a segment contains ":";
// use id for map keys.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// id encodes k with length-prefixed segments, so distinct keys never share
// an id.
func (k Key) id() string {
	var b strings.Builder
	for _, seg := range k {
		b.WriteString(strconv.Itoa(len(seg)))
		b.WriteByte(':')
		b.WriteString(seg)
	}
	return b.String()
}

// HasPrefix reports whether k starts with every segment of prefix.
// Key{"news"} is a prefix of Key{"news", "page=2"}.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// With returns a new key extended by segs.
func (k Key) With(segs ...string) Key {
	out := make(Key, 0, len(k)+len(segs))
	out = append(out, k...)
	return append(out, segs...)
}
