package mediaindex

import (
	"errors"
	"io"
	"os"

	"github.com/llehouerou/tunedeck/internal/catalog"
)

// SourceAccess grants catalog access when every configured library folder
// can be opened for reading.
type SourceAccess struct {
	Sources []string
}

// Granted is false with no sources configured.
func (a SourceAccess) Granted() bool {
	if len(a.Sources) == 0 {
		return false
	}
	for _, src := range a.Sources {
		f, err := os.Open(src)
		if err != nil {
			return false
		}
		_, err = f.Readdirnames(1)
		f.Close()
		if err != nil && !errors.Is(err, io.EOF) {
			return false
		}
	}
	return true
}

var _ catalog.Permission = SourceAccess{}
