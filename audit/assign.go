package audit

import (
	"errors"
	"math/rand"
	"strings"
)

// ErrNoAssignees is returned when the reviewer pool is empty after
// trimming blank entries.
var ErrNoAssignees = errors.New("no assignees configured")

// ChooseAssignee picks one reviewer from the pool uniformly at random.
// There is no memory of past assignments; fairness across invocations is
// pure chance.
func ChooseAssignee(pool []string) (string, error) {
	candidates := make([]string, 0, len(pool))
	for _, p := range pool {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			candidates = append(candidates, trimmed)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoAssignees
	}
	return candidates[rand.Intn(len(candidates))], nil
}
