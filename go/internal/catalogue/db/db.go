package db

import (
	"database/sql"

	"github.com/mcdev12/auctionpro/go/internal/sqlutil"
)

func New(db sqlutil.DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db sqlutil.DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
