package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTaskRefRequired indicates no task id was provided.
var ErrTaskRefRequired = errors.New("task id required")

// ParseTaskRef parses one task id. Both "12" and "#12" are accepted.
func ParseTaskRef(arg string) (int64, error) {
	s := strings.TrimPrefix(strings.TrimSpace(arg), "#")
	if !isAllDigits(s) {
		return 0, fmt.Errorf("invalid task id: %s", arg)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", arg)
	}
	return id, nil
}

// ParseTaskRefs parses every arg as a task id. Repeated ids are kept once,
// in first-seen order.
func ParseTaskRefs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	seen := make(map[int64]bool, len(args))
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := ParseTaskRef(arg)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
