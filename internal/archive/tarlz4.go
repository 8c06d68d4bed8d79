package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// TarLZ4Codec implements Codec as an LZ4-compressed tar stream.
type TarLZ4Codec struct {
	level lz4.CompressionLevel
}

// NewTarLZ4Codec creates a codec with the given compression level (0-9).
// Level 0 selects the fast default.
func NewTarLZ4Codec(level int) *TarLZ4Codec {
	lv := lz4.Fast
	switch level {
	case 0:
	case 1:
		lv = lz4.Level1
	case 2:
		lv = lz4.Level2
	case 3:
		lv = lz4.Level3
	case 4:
		lv = lz4.Level4
	case 5:
		lv = lz4.Level5
	case 6:
		lv = lz4.Level6
	case 7:
		lv = lz4.Level7
	case 8:
		lv = lz4.Level8
	default:
		lv = lz4.Level9
	}
	return &TarLZ4Codec{level: lv}
}

// Pack writes files into an LZ4-compressed tar archive at archivePath.
// The archive is written to a temp file and renamed into place so a failed
// pack never leaves a partial archive behind.
func (c *TarLZ4Codec) Pack(archivePath string, workDir string, files []string) error {
	dir := filepath.Dir(archivePath)
	tmp, err := os.CreateTemp(dir, ".tmp-archive-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := c.writeArchive(tmp, workDir, files); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, archivePath); err != nil {
		return fmt.Errorf("renaming archive: %w", err)
	}
	success = true
	return nil
}

func (c *TarLZ4Codec) writeArchive(w io.Writer, workDir string, files []string) error {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(c.level)); err != nil {
		return fmt.Errorf("configuring compression: %w", err)
	}
	tw := tar.NewWriter(zw)

	for _, rel := range files {
		if err := c.addFile(tw, workDir, rel); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing tar stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing compression: %w", err)
	}
	return nil
}

func (c *TarLZ4Codec) addFile(tw *tar.Writer, workDir string, rel string) error {
	fullPath := filepath.Join(workDir, rel)

	info, err := os.Lstat(fullPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}

	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		link, err = os.Readlink(fullPath)
		if err != nil {
			return fmt.Errorf("reading link %s: %w", rel, err)
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", rel, err)
	}
	hdr.Name = filepath.ToSlash(rel)

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", rel, err)
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", rel, err)
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archiving %s: %w", rel, err)
	}
	return nil
}

// Unpack extracts an archive over workDir with overwrite semantics.
func (c *TarLZ4Codec) Unpack(archivePath string, workDir string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	tr := tar.NewReader(lz4.NewReader(f))

	var written []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, fmt.Errorf("reading archive: %w", err)
		}

		rel, err := sanitizeEntryName(hdr.Name)
		if err != nil {
			return written, err
		}
		dest := filepath.Join(workDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, os.FileMode(hdr.Mode)); err != nil {
				return written, fmt.Errorf("creating directory %s: %w", rel, err)
			}
		case tar.TypeReg:
			if err := extractFile(tr, dest, os.FileMode(hdr.Mode)); err != nil {
				return written, fmt.Errorf("extracting %s: %w", rel, err)
			}
			written = append(written, rel)
		case tar.TypeSymlink:
			if err := extractSymlink(hdr.Linkname, dest); err != nil {
				return written, fmt.Errorf("extracting %s: %w", rel, err)
			}
			written = append(written, rel)
		default:
			// Devices and other special entries are not captured by
			// checkpoints; skip anything unexpected.
			continue
		}
	}
	return written, nil
}

// sanitizeEntryName rejects archive entries that would escape the work tree.
func sanitizeEntryName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("archive entry with empty name")
	}
	rel := filepath.FromSlash(name)
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("archive entry with absolute path: %s", name)
	}
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes work tree: %s", name)
	}
	return clean, nil
}

func extractSymlink(target, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	// os.Symlink refuses to overwrite; remove whatever occupies the path.
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing existing file: %w", err)
	}
	if err := os.Symlink(target, dest); err != nil {
		return fmt.Errorf("creating symlink: %w", err)
	}
	return nil
}

func extractFile(r io.Reader, dest string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("writing file: %w", err)
	}
	return f.Close()
}

// Compile-time check that TarLZ4Codec implements Codec.
var _ Codec = (*TarLZ4Codec)(nil)
