// Package pack implements the packed-attribute encoding used by the generic
// "extra" column: a bag mapping single-character keys to encoded sub-documents.
// Key assignments are persisted format and must stay stable.
package pack

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Doc is a packed sub-document. PackKey returns the single-character key the
// document type owns inside its parent bag.
type Doc interface {
	PackKey() string
}

// Bag is the decoded form of an entity's extra column. Keys the current code
// does not know about are kept as raw JSON and survive a round trip untouched.
type Bag map[string]json.RawMessage

// NewBag returns an empty, non-nil bag.
func NewBag() Bag {
	return Bag{}
}

// Encode serializes the bag to its storage form. An empty or nil bag encodes
// to "{}" so the extra column is never NULL.
func (b Bag) Encode() ([]byte, error) {
	if len(b) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(b)
}

// DecodeBag parses the storage form. Empty input yields an empty bag.
func DecodeBag(data []byte) (Bag, error) {
	if len(data) == 0 {
		return NewBag(), nil
	}
	bag := NewBag()
	if err := json.Unmarshal(data, &bag); err != nil {
		return nil, fmt.Errorf("decode pack bag: %w", err)
	}
	return bag, nil
}

// Value implements driver.Valuer so a Bag can be written as a column value.
func (b Bag) Value() (driver.Value, error) {
	data, err := b.Encode()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for reading the extra column.
func (b *Bag) Scan(src interface{}) error {
	switch value := src.(type) {
	case nil:
		*b = NewBag()
		return nil
	case string:
		bag, err := DecodeBag([]byte(value))
		if err != nil {
			return err
		}
		*b = bag
		return nil
	case []byte:
		bag, err := DecodeBag(value)
		if err != nil {
			return err
		}
		*b = bag
		return nil
	default:
		return fmt.Errorf("pack: cannot scan %T into Bag", src)
	}
}

// Container is a typed accessor over one document type under its fixed key
// inside a bag. Load and Store are the only mutation path; there is no live
// write-back through references.
type Container[T Doc] struct {
	key string
}

// NewContainer builds the accessor for T and validates its key.
func NewContainer[T Doc]() Container[T] {
	var zero T
	key := zero.PackKey()
	if len(key) != 1 {
		panic(fmt.Sprintf("pack: document key %q must be a single character", key))
	}
	return Container[T]{key: key}
}

// Key returns the bag key owned by T.
func (c Container[T]) Key() string {
	return c.key
}

// Load decodes the document stored under the container key. An absent key or
// absent fields decode to zero values, never an error.
func (c Container[T]) Load(bag Bag) (T, error) {
	var doc T
	raw, ok := bag[c.key]
	if !ok {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode packed doc %q: %w", c.key, err)
	}
	return doc, nil
}

// Store re-encodes doc under the container key. Fields at their zero value are
// omitted from the encoded form.
func (c Container[T]) Store(bag Bag, doc T) error {
	if bag == nil {
		return fmt.Errorf("pack: store into nil bag")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode packed doc %q: %w", c.key, err)
	}
	bag[c.key] = raw
	return nil
}

// EnsureUniqueKeys panics if two document types sharing one bag claim the same
// key. Called from init of the package declaring the documents.
func EnsureUniqueKeys(docs ...Doc) {
	seen := make(map[string]Doc, len(docs))
	for _, doc := range docs {
		key := doc.PackKey()
		if len(key) != 1 {
			panic(fmt.Sprintf("pack: document key %q must be a single character", key))
		}
		if prev, ok := seen[key]; ok {
			panic(fmt.Sprintf("pack: key %q claimed by both %T and %T", key, prev, doc))
		}
		seen[key] = doc
	}
}
