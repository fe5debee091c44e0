package postgres

import (
	"database/sql"
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanBlock(row scanner) (grid.Block, error) {
	var (
		index                       int
		status, owner, dugBy, color sql.NullString
		visual                      sql.NullString
		dugAt                       sql.NullTime
	)
	if err := row.Scan(&index, &status, &owner, &dugBy, &color, &visual, &dugAt); err != nil {
		return grid.Block{}, err
	}
	r := grid.Record{
		Index:  index,
		Status: grid.Status(status.String),
		Owner:  owner.String,
		DugBy:  dugBy.String,
		Color:  color.String,
	}
	if visual.Valid {
		v := visual.String
		r.Visual = &v
	}
	if dugAt.Valid {
		r.DugAt = dugAt.Time
	}
	return grid.FromRecord(r), nil
}

// blockArgs returns the column values in insertBlockQuery/updateBlockQuery order.
func blockArgs(b grid.Block) []any {
	r := b.Record()
	var dugAt any
	if !r.DugAt.IsZero() {
		dugAt = r.DugAt.UTC().Truncate(time.Microsecond)
	}
	return []any{r.Index, string(r.Status), nullable(r.Owner), nullable(r.Owner), nullable(r.Color), visualArg(r.Visual), dugAt}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func visualArg(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
