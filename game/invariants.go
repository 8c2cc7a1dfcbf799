package game

import (
	"fmt"
	"strings"

	"github.com/mctar/pasteroids/systems"
)

// InvariantError reports non-finite simulation state found by the scan.
type InvariantError struct {
	Tick   int
	Issues []systems.InvariantIssue
}

func (e *InvariantError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("invariant violation at tick %d: %s", e.Tick, strings.Join(parts, ", "))
}

// checkInvariants scans the world every interval ticks, counting from tick 0.
func (s *Session) checkInvariants() error {
	interval := s.opts.InvariantInterval
	if interval <= 0 || s.tick%interval != 0 {
		return nil
	}

	issues := systems.ScanNonFinite(s.world)
	if len(issues) == 0 {
		return nil
	}
	return &InvariantError{Tick: s.tick, Issues: issues}
}
