package memory

import "github.com/fireredbridge/corebridge/log"

// Scope accounts memory-client calls within one logical unit of work
// (one snapshot build, one input step, ...). Scopes nest; only the
// outermost scope emits a log line when it closes. The
// single-threaded cooperative core makes an explicit stack on the
// Client equivalent to thread-local accounting and simpler to reason
// about.
type Scope struct {
	client *Client
	parent *Scope

	Calls         int
	Ranges        int
	BytesRequested int
	BytesReturned  int
}

func (s *Scope) recordScalarRead() {
	for sc := s; sc != nil; sc = sc.parent {
		sc.Calls++
	}
}

func (s *Scope) recordRange(requested, returned int) {
	for sc := s; sc != nil; sc = sc.parent {
		sc.Calls++
		sc.Ranges++
		sc.BytesRequested += requested
		sc.BytesReturned += returned
	}
}

func (s *Scope) recordRanges(requested, returned []int) {
	for i := range requested {
		s.recordRange(requested[i], returned[i])
	}
}

// Close pops the scope off the client's stack, emitting the single
// summary log line if this was the outermost scope.
func (s *Scope) Close() {
	if s.client.scope != s {
		// Defensive: scopes must close in LIFO order. A caller that
		// forgets to close an inner scope before the outer one is a bug
		// in this package, not a recoverable runtime condition.
		panic("memory: metrics scope closed out of order")
	}
	s.client.scope = s.parent
	if s.parent == nil {
		s.client.logger.Debug("memory scope complete",
			log.F("calls", s.Calls),
			log.F("ranges", s.Ranges),
			log.F("bytesRequested", s.BytesRequested),
			log.F("bytesReturned", s.BytesReturned),
		)
	}
}
