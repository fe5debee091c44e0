package grid

import (
	"encoding/json"
	"fmt"
)

// Grid is the ordered, fixed-size sequence of blocks. Grid[i].Index == i.
type Grid []Block

// New returns a grid of total undug blocks.
func New(total int) Grid {
	g := make(Grid, total)
	for i := range g {
		g[i] = NewBlock(i)
	}
	return g
}

// Validate checks ordering and every block invariant.
func (g Grid) Validate() error {
	for i, b := range g {
		if b.Index != i {
			return Corrupt(i, "block at position %d carries index %d", i, b.Index)
		}
		if err := b.Validate(len(g)); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, b := range g {
		out[i] = b.Clone()
	}
	return out
}

// At returns a copy of the block at index.
func (g Grid) At(index int) (Block, error) {
	if index < 0 || index >= len(g) {
		return Block{}, &OutOfRangeError{Index: index, Total: len(g)}
	}
	return g[index].Clone(), nil
}

// User is an auxiliary known-user record. It never affects ownership.
type User struct {
	Username string
	Color    string

	extra map[string]json.RawMessage
}

type userDoc struct {
	Username string  `json:"username"`
	Color    *string `json:"color"`
}

var userFields = []string{"username", "color"}

// MarshalJSON keeps fields owned by other tools (credentials, counters) untouched.
func (u User) MarshalJSON() ([]byte, error) {
	doc := userDoc{Username: u.Username}
	if u.Color != "" {
		color := u.Color
		doc.Color = &color
	}
	return marshalWithExtra(doc, u.extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var doc userDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	extra, err := unknownFields(data, userFields)
	if err != nil {
		return err
	}
	*u = User{Username: doc.Username, Color: deref(doc.Color), extra: extra}
	return nil
}

// Document is the full durable state: the grid plus the known users.
type Document struct {
	Grid  Grid
	Users []User

	extra map[string]json.RawMessage
}

type documentDoc struct {
	Grid  Grid   `json:"grid"`
	Users []User `json:"users"`
}

var documentFields = []string{"grid", "users"}

// NewDocument returns a document holding a fresh grid of total blocks.
func NewDocument(total int) *Document {
	return &Document{Grid: New(total), Users: []User{}}
}

// Validate checks the grid invariants.
func (d *Document) Validate() error {
	if d == nil {
		return &CorruptStateError{Index: -1, Reason: "empty document"}
	}
	return d.Grid.Validate()
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Grid: d.Grid.Clone(), extra: d.extra}
	if d.Users != nil {
		out.Users = make([]User, len(d.Users))
		copy(out.Users, d.Users)
	}
	return out
}

// UserColor returns the registered color of username, if any.
func (d *Document) UserColor(username string) (string, bool) {
	for _, u := range d.Users {
		if u.Username == username && u.Color != "" {
			return u.Color, true
		}
	}
	return "", false
}

func (d Document) MarshalJSON() ([]byte, error) {
	doc := documentDoc{Grid: d.Grid, Users: d.Users}
	if doc.Grid == nil {
		doc.Grid = Grid{}
	}
	if doc.Users == nil {
		doc.Users = []User{}
	}
	return marshalWithExtra(doc, d.extra)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var doc documentDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	extra, err := unknownFields(data, documentFields)
	if err != nil {
		return err
	}
	*d = Document{Grid: doc.Grid, Users: doc.Users, extra: extra}
	if d.Users == nil {
		d.Users = []User{}
	}
	return nil
}

// Decode parses and validates a document. Any failure is a CorruptStateError.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptStateError{Index: -1, Reason: "malformed document", Err: err}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode validates and serializes a document in its indented canonical form.
func Encode(d *Document) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
