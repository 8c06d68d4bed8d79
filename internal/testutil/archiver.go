package testutil

// PackCall records one Pack invocation on a StubArchiver.
type PackCall struct {
	ArchivePath string
	WorkDir     string
	Files       []string
}

// UnpackCall records one Unpack invocation on a StubArchiver.
type UnpackCall struct {
	ArchivePath string
	WorkDir     string
}

// StubArchiver records pack/unpack calls without touching the filesystem.
type StubArchiver struct {
	Packs   []PackCall
	Unpacks []UnpackCall

	// PackErr, when set, is returned by Pack.
	PackErr error
	// UnpackFiles is returned by a successful Unpack.
	UnpackFiles []string
	// UnpackErr, when set, is returned by Unpack.
	UnpackErr error
}

func (a *StubArchiver) Pack(archivePath string, workDir string, files []string) error {
	if a.PackErr != nil {
		return a.PackErr
	}
	a.Packs = append(a.Packs, PackCall{
		ArchivePath: archivePath,
		WorkDir:     workDir,
		Files:       append([]string(nil), files...),
	})
	return nil
}

func (a *StubArchiver) Unpack(archivePath string, workDir string) ([]string, error) {
	if a.UnpackErr != nil {
		return nil, a.UnpackErr
	}
	a.Unpacks = append(a.Unpacks, UnpackCall{ArchivePath: archivePath, WorkDir: workDir})
	return append([]string(nil), a.UnpackFiles...), nil
}

// StubMessages is a MessageSource that records whether it was consulted.
type StubMessages struct {
	Message string
	Err     error
	Called  bool
}

func (m *StubMessages) ReadMessage() (string, error) {
	m.Called = true
	if m.Err != nil {
		return "", m.Err
	}
	return m.Message, nil
}
