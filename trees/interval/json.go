package interval

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// MarshalJSON encodes the set as a list of [lower, upper] pairs.
func (s *Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Segments())
}

// UnmarshalJSON decodes a list of [lower, upper] pairs, applying the same
// validation as New.
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var rows [][]T
	if err := json.Unmarshal(data, &rows); err != nil {
		return errors.Wrap(err, "decode interval segments")
	}

	segments, err := Pairs(rows)
	if err != nil {
		return err
	}

	decoded, err := FromSegments(segments)
	if err != nil {
		return err
	}

	*s = *decoded
	return nil
}

// Pairs converts rows of arbitrary length to segments, failing unless every
// row holds exactly two bounds.
func Pairs[T Bound](rows [][]T) ([][2]T, error) {
	segments := make([][2]T, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, errors.Wrapf(ErrInvalidInterval, "shape mismatch: segment %d has %d bounds", i, len(row))
		}
		segments[i] = [2]T{row[0], row[1]}
	}
	return segments, nil
}
