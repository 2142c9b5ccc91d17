package interval

import "github.com/cockroachdb/errors"

// ErrInvalidInterval is returned by every constructor when the bounds break
// one of the set invariants.
var ErrInvalidInterval = errors.New("invalid interval")
