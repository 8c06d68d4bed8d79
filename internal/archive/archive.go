// Package archive packs checkpoint file lists into single blobs and unpacks
// them back over a working tree. The format is a tar stream compressed with
// LZ4.
package archive

// Codec is the generic pack/extract capability used by checkpoint creation
// and restoration.
type Codec interface {
	// Pack writes the given work-tree-relative files into a single archive
	// at archivePath. Paths inside the archive are stored relative.
	Pack(archivePath string, workDir string, files []string) error

	// Unpack extracts an archive into workDir, unconditionally overwriting
	// existing files and creating directories as needed. Files on disk that
	// are not in the archive are left untouched. Returns the relative paths
	// written.
	Unpack(archivePath string, workDir string) ([]string, error)
}
