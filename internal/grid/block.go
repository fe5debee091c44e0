// Package grid defines the digging board model: blocks, their lifecycle and document encoding.
package grid

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status describes the dig state of a block.
type Status string

const (
	// StatusUndug marks a block nobody has claimed yet.
	StatusUndug Status = "undug"
	// StatusDug marks a claimed block. It is terminal.
	StatusDug Status = "dug"
)

// TransitionFunc mutates a single block inside a store's serialization boundary.
type TransitionFunc func(b *Block) error

// Block is one cell of the grid.
type Block struct {
	Index  int
	Status Status
	Owner  string
	Color  string
	Visual *string
	DugAt  time.Time

	// dugBy is the legacy alias of Owner as read from a document.
	dugBy string
	// extra holds fields this version does not know about.
	extra map[string]json.RawMessage
}

// NewBlock returns an undug block at index.
func NewBlock(index int) Block {
	return Block{Index: index, Status: StatusUndug}
}

// DugBy returns the legacy dugBy alias, which always equals Owner on a valid block.
func (b Block) DugBy() string {
	return b.dugBy
}

// IsDug reports whether the block has been claimed.
func (b Block) IsDug() bool {
	return b.Status == StatusDug
}

// Dig claims the block for owner. It fails with AlreadyClaimedError if the block is dug.
// DugAt keeps microsecond precision, the finest every backend stores.
func (b *Block) Dig(owner, color string, at time.Time) error {
	if b.IsDug() {
		return &AlreadyClaimedError{Index: b.Index, Owner: b.Owner}
	}
	b.Status = StatusDug
	b.Owner = owner
	b.dugBy = owner
	b.Color = color
	b.DugAt = at.UTC().Truncate(time.Microsecond)
	return nil
}

// Recolor changes the color of a dug block. Only its owner may do so.
func (b *Block) Recolor(identity, color string) error {
	if !b.IsDug() || b.Owner != identity {
		return &NotOwnerError{Index: b.Index, Owner: b.Owner, Identity: identity}
	}
	b.Color = color
	return nil
}

// SetVisual sets the visual reference; nil clears it.
func (b *Block) SetVisual(visual *string) {
	if visual == nil {
		b.Visual = nil
		return
	}
	v := *visual
	b.Visual = &v
}

// Validate checks the block invariants for a grid of total blocks.
func (b Block) Validate(total int) error {
	if b.Index < 0 || b.Index >= total {
		return Corrupt(b.Index, "index outside grid of %d blocks", total)
	}
	switch b.Status {
	case StatusUndug:
		if b.Owner != "" || b.dugBy != "" {
			return Corrupt(b.Index, "undug block has an owner")
		}
		if !b.DugAt.IsZero() {
			return Corrupt(b.Index, "undug block has dugAt")
		}
	case StatusDug:
		if b.Owner == "" {
			return Corrupt(b.Index, "dug block missing owner")
		}
		if b.dugBy != b.Owner {
			return Corrupt(b.Index, "owner %q and dugBy %q diverge", b.Owner, b.dugBy)
		}
	default:
		return Corrupt(b.Index, "unknown status %q", b.Status)
	}
	return nil
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := b
	if b.Visual != nil {
		v := *b.Visual
		out.Visual = &v
	}
	if b.extra != nil {
		out.extra = make(map[string]json.RawMessage, len(b.extra))
		for k, v := range b.extra {
			out.extra[k] = v
		}
	}
	return out
}

// Extra returns the raw value of an unknown field carried by the block.
func (b Block) Extra(key string) (json.RawMessage, bool) {
	v, ok := b.extra[key]
	return v, ok
}

type blockDoc struct {
	Index  *int       `json:"index"`
	Status *Status    `json:"status,omitempty"`
	Owner  *string    `json:"owner"`
	DugBy  *string    `json:"dugBy"`
	Color  *string    `json:"color"`
	Visual *string    `json:"visual"`
	DugAt  *time.Time `json:"dugAt,omitempty"`
}

var blockFields = []string{"index", "status", "owner", "dugBy", "color", "visual", "dugAt"}

// MarshalJSON writes the canonical document form. Absent values are null.
func (b Block) MarshalJSON() ([]byte, error) {
	idx := b.Index
	status := b.Status
	doc := blockDoc{Index: &idx, Status: &status, Visual: b.Visual}
	if b.Owner != "" {
		owner := b.Owner
		doc.Owner = &owner
		doc.DugBy = &owner
	}
	if b.Color != "" {
		color := b.Color
		doc.Color = &color
	}
	if !b.DugAt.IsZero() {
		at := b.DugAt.UTC()
		doc.DugAt = &at
	}
	return marshalWithExtra(doc, b.extra)
}

// UnmarshalJSON reads a block, upgrading legacy shapes: a missing status is derived from
// owner/dugBy presence, and a missing dugBy is filled from owner.
// Invariants are not checked here; see Validate.
func (b *Block) UnmarshalJSON(data []byte) error {
	var doc blockDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Index == nil {
		return fmt.Errorf("block missing index")
	}
	extra, err := unknownFields(data, blockFields)
	if err != nil {
		return err
	}

	var dugAt time.Time
	if doc.DugAt != nil {
		dugAt = *doc.DugAt
	}
	out := FromRecord(Record{
		Index:  *doc.Index,
		Status: derefStatus(doc.Status),
		Owner:  deref(doc.Owner),
		DugBy:  deref(doc.DugBy),
		Color:  deref(doc.Color),
		Visual: doc.Visual,
		DugAt:  dugAt,
	})
	out.extra = extra
	*b = out
	return nil
}

// Record is the flat form of a block used by row and hash backends.
// An empty Status marks a legacy record written before the status field existed.
type Record struct {
	Index  int
	Status Status
	Owner  string
	DugBy  string
	Color  string
	Visual *string
	DugAt  time.Time
}

// Record flattens the block.
func (b Block) Record() Record {
	r := Record{
		Index:  b.Index,
		Status: b.Status,
		Owner:  b.Owner,
		DugBy:  b.dugBy,
		Color:  b.Color,
		DugAt:  b.DugAt,
	}
	if b.Visual != nil {
		v := *b.Visual
		r.Visual = &v
	}
	return r
}

// FromRecord rebuilds a block, upgrading legacy shapes the same way UnmarshalJSON does.
func FromRecord(r Record) Block {
	owner, dugBy := r.Owner, r.DugBy
	status := r.Status
	if status == "" {
		if owner == "" {
			owner = dugBy
		}
		status = StatusUndug
		if owner != "" {
			status = StatusDug
		}
	}
	if dugBy == "" {
		dugBy = owner
	}
	b := Block{
		Index:  r.Index,
		Status: status,
		Owner:  owner,
		Color:  r.Color,
		dugBy:  dugBy,
	}
	b.SetVisual(r.Visual)
	if !r.DugAt.IsZero() {
		b.DugAt = r.DugAt.UTC()
	}
	return b
}

func derefStatus(s *Status) Status {
	if s == nil {
		return ""
	}
	return *s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func unknownFields(data []byte, known []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, known := merged[k]; !known {
			merged[k] = raw
		}
	}
	return json.Marshal(merged)
}
