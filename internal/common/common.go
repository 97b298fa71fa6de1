package common

import (
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseID parses a path id, reporting false for anything but a positive integer.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func Today() string {
	return time.Now().Format(DateLayout)
}

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Page clamps offset/limit query values.
func Page(start, count string) (offset, limit int) {
	const (
		minOffset = 0
		minLimit  = 1
		maxLimit  = 100
	)

	limit, err := strconv.Atoi(count)
	if err != nil || limit < minLimit || limit > maxLimit {
		limit = maxLimit
	}
	offset, err = strconv.Atoi(start)
	if err != nil || offset < minOffset {
		offset = minOffset
	}
	return offset, limit
}

// UniqueIDs drops zero and repeated ids, keeping first-seen order.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
