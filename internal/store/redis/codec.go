package redis

import (
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

func blockToHash(b grid.Block) map[string]any {
	r := b.Record()
	hash := map[string]any{fieldStatus: string(r.Status)}
	if r.Owner != "" {
		hash[fieldOwner] = r.Owner
		hash[fieldDugBy] = r.Owner
	}
	if r.Color != "" {
		hash[fieldColor] = r.Color
	}
	if r.Visual != nil {
		hash[fieldVisual] = *r.Visual
	}
	if !r.DugAt.IsZero() {
		hash[fieldDugAt] = r.DugAt.UTC().Format(time.RFC3339Nano)
	}
	return hash
}

func hashToBlock(index int, hash map[string]string) (grid.Block, error) {
	if len(hash) == 0 {
		return grid.NewBlock(index), nil
	}
	r := grid.Record{
		Index:  index,
		Status: grid.Status(hash[fieldStatus]),
		Owner:  hash[fieldOwner],
		DugBy:  hash[fieldDugBy],
		Color:  hash[fieldColor],
	}
	if v, ok := hash[fieldVisual]; ok {
		r.Visual = &v
	}
	if raw, ok := hash[fieldDugAt]; ok && raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return grid.Block{}, &grid.CorruptStateError{Index: index, Reason: "malformed dugAt", Err: err}
		}
		r.DugAt = at
	}
	return grid.FromRecord(r), nil
}
