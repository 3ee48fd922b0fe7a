package service

import (
	"strconv"

	"inkwell/internal/models"
)

func formatKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// invalid wraps a validation failure from the validation package.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return models.NewValidationError(err.Error())
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
