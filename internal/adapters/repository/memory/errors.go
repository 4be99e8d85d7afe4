package memory

import "errors"

var ErrReadOnly = errors.New("write attempted in a read-only transaction")
