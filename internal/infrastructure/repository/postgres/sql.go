package postgres

import (
	"database/sql"
	"errors"
)

// maxBatchRows keeps multi-row inserts well under the 65535 bind parameter
// limit.
const maxBatchRows = 1000

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
