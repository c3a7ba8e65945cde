package imgcompress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile atomically writes data to path. The bytes go to a temporary file
// in the same directory which is renamed over path only after a successful
// write and sync; on failure nothing is left behind.
func WriteFile(path string, data []byte) error {
	return WriteFileFunc(path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFile, err)
		}
		return nil
	})
}

// WriteFileFunc is WriteFile for streamed output produced by fn.
func WriteFileFunc(path string, fn func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = fn(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, path, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, path, err)
	}

	return nil
}

// ReadFile reads an encoded stream from path, unwrapping any transport frame.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadStream(f)
}

// WriteImageFile encodes img and atomically writes it to path using transport t.
func WriteImageFile(path string, img *Image, t Transport) error {
	data, err := Encode(img)
	if err != nil {
		return err
	}

	return WriteFileFunc(path, func(w io.Writer) error {
		return WriteStream(w, data, t)
	})
}

// ReadImageFile reads and decodes a compressed image from path.
func ReadImageFile(path string) (*Image, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}
