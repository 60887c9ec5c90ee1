package collector

import (
	"github.com/PolarWolf314/envsync/internal/catalog"
	"github.com/PolarWolf314/envsync/internal/snapshot"
)

// Session is the state of one sync run.
type Session struct {
	Environment string

	Remote   []catalog.RemoteItem
	Index    catalog.Index
	Snapshot snapshot.Values

	// Asked lists every question that was actually put to the operator.
	Asked []catalog.Question

	Answers catalog.Answers
	order   []string

	// Flush persists the answers of a completed section. Nil disables it.
	Flush func(updates snapshot.Values) error
}

// NewSession starts a session over the fetched remote items and the local snapshot.
func NewSession(environment string, remote []catalog.RemoteItem, local snapshot.Values) *Session {
	if local == nil {
		local = snapshot.Values{}
	}
	return &Session{
		Environment: environment,
		Remote:      remote,
		Index:       catalog.NewIndex(remote),
		Snapshot:    local,
		Answers:     catalog.Answers{},
	}
}

// Record stores an answer. Re-recording a name replaces it in place.
func (s *Session) Record(answer catalog.Answer) {
	if _, ok := s.Answers[answer.Name]; !ok {
		s.order = append(s.order, answer.Name)
	}
	s.Answers[answer.Name] = answer
}

// AnswerList returns the answers in the order they were first recorded.
func (s *Session) AnswerList() []catalog.Answer {
	list := make([]catalog.Answer, 0, len(s.order))
	for _, name := range s.order {
		list = append(list, s.Answers[name])
	}
	return list
}

// SnapshotUpdates returns the snapshot pairs for the named answers.
// Synthetic and empty answers are left out.
func (s *Session) SnapshotUpdates(names []string) snapshot.Values {
	updates := snapshot.Values{}
	for _, name := range names {
		answer, ok := s.Answers[name]
		if !ok || answer.Synthetic || answer.Value == "" {
			continue
		}
		updates[answer.SnapshotKey()] = answer.Value
	}
	return updates
}

// Commit merges updates into the in-memory snapshot and flushes them.
func (s *Session) Commit(updates snapshot.Values) error {
	if len(updates) == 0 {
		return nil
	}
	s.Snapshot = snapshot.Merge(s.Snapshot, updates)
	if s.Flush == nil {
		return nil
	}
	return s.Flush(updates)
}
