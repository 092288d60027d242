package postgres

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
)

func uint128FromNumeric(src pgtype.Numeric) (uint128.Uint128, error) {
	if !src.Valid {
		return uint128.Zero, nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	result, err := uint128.FromString(string(bytes))
	if err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	return result, nil
}

func numericFromUint128(src uint128.Uint128) (pgtype.Numeric, error) {
	var result pgtype.Numeric
	if err := result.UnmarshalJSON([]byte(src.String())); err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

func timestampFromTime(src time.Time) pgtype.Timestamp {
	return pgtype.Timestamp{Time: src.UTC(), Valid: true}
}

func attributesToJSON(src map[string]string) ([]byte, error) {
	if len(src) == 0 {
		return []byte("{}"), nil
	}
	bytes, err := json.Marshal(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal attributes")
	}
	return bytes, nil
}

func attributesFromJSON(src []byte) (map[string]string, error) {
	result := make(map[string]string)
	if len(src) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(src, &result); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal attributes")
	}
	return result, nil
}
