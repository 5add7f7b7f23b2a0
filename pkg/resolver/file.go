package resolver

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// FileResolver resolves ${file:name} references to the trimmed contents of
// name inside the reference directory given to Load.
//
//	API_TOKEN=${file:api_token}   # contents of <ReferenceDir>/api_token
//
// Names are slash separated and local to the reference directory; symbolic
// links leading out of it are refused as well.
type FileResolver struct {
	referenceDir string
}

// NewFileResolver returns a resolver reading from referenceDir.
func NewFileResolver(referenceDir string) *FileResolver {
	return &FileResolver{referenceDir: referenceDir}
}

func (f *FileResolver) Resolve(name string) (string, error) {
	if f.referenceDir == "" {
		return "", errors.New("file references need a reference directory")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty file reference")
	}
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", errors.Errorf("file reference %q must stay inside the reference directory", name)
	}

	root, err := os.OpenRoot(f.referenceDir)
	if err != nil {
		return "", errors.Wrapf(err, "unable to open reference directory %s", f.referenceDir)
	}
	defer func() { _ = root.Close() }()

	content, err := root.ReadFile(local)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", errors.Errorf("referenced file %q not found in %s", name, f.referenceDir)
	case err != nil:
		return "", errors.Wrapf(err, "unable to read referenced file %q", name)
	}

	log.Debug().Str("reference", name).Str("dir", f.referenceDir).Msg("Resolved file reference")
	return strings.TrimSpace(string(content)), nil
}

func (f *FileResolver) Name() string {
	return "File"
}
