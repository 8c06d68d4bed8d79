package testutil

// StubChangeSource returns a scripted change set.
type StubChangeSource struct {
	Files []string
	Err   error
}

func (s *StubChangeSource) Changes() ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]string(nil), s.Files...), nil
}
