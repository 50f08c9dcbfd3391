package banderole

import (
	"fmt"
	"io"
	"os"
)

// BootstrapProvider supplies an initial feature-toggle document (the
// {version, features: [...]} schema) read once at client construction,
// so evaluations can be served before the first remote fetch succeeds.
type BootstrapProvider interface {
	// Read returns the raw toggle document.
	Read() ([]byte, error)

	// Source names where the document comes from, for error messages.
	Source() string
}

// FileBootstrap reads the bootstrap document from a file.
func FileBootstrap(path string) BootstrapProvider {
	return fileBootstrap{path: path}
}

type fileBootstrap struct {
	path string
}

func (f fileBootstrap) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bootstrap file: %w", err)
	}
	return data, nil
}

func (f fileBootstrap) Source() string {
	return f.path
}

// StringBootstrap uses an in-memory document.
func StringBootstrap(document string) BootstrapProvider {
	return stringBootstrap{document: document}
}

type stringBootstrap struct {
	document string
}

func (s stringBootstrap) Read() ([]byte, error) {
	return []byte(s.document), nil
}

func (s stringBootstrap) Source() string {
	return "string"
}

// ReaderBootstrap reads the document from an io.Reader. The reader is
// consumed once, at client construction.
func ReaderBootstrap(r io.Reader) BootstrapProvider {
	return readerBootstrap{r: r}
}

type readerBootstrap struct {
	r io.Reader
}

func (b readerBootstrap) Read() ([]byte, error) {
	data, err := io.ReadAll(b.r)
	if err != nil {
		return nil, fmt.Errorf("failed to read bootstrap document: %w", err)
	}
	return data, nil
}

func (b readerBootstrap) Source() string {
	return "reader"
}
