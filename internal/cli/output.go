package cli

import (
	"io"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// FileSystem abstracts the calls writeOutput makes so tests can fail them.
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (osFileSystem) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

func (osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

var defaultFileSystem FileSystem = osFileSystem{}

func writeOutput(data []byte, path string, stdout io.Writer) error {
	return writeOutputWithFS(data, path, stdout, defaultFileSystem)
}

func writeOutputWithFS(data []byte, path string, stdout io.Writer, fs FileSystem) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}

	outDir := filepath.Dir(path)
	if fi, err := fs.Stat(outDir); err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("output directory %s does not exist; create it first", outDir)
		}
		return errors.Errorf("stat output directory: %w", err)
	} else if !fi.IsDir() {
		return errors.Errorf("output path %s is not a directory", outDir)
	}

	if err := fs.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return errors.Errorf("write output: %w", err)
	}
	return nil
}
