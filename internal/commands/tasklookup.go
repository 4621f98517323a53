package commands

import (
	"dtask/internal/service"
	"dtask/internal/taskcache"
)

// lookupTasks splits ids into tasks present in the snapshot and ids it
// does not contain.
func lookupTasks(s taskcache.State, ids []int64) (found []service.Task, missing []int64) {
	for _, id := range ids {
		if t, ok := s.Find(id); ok {
			found = append(found, t)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}
