package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// readDocument decodes the JSON document at path into v. It never fails:
// the returned report distinguishes a missing file, an unreadable or
// malformed one, and a successful read. v is left untouched unless the
// status is model.LoadOK.
func readDocument(path string, v any) model.LoadReport {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.LoadReport{Path: path, Status: model.LoadAbsent}
	}
	if err != nil {
		return model.LoadReport{Path: path, Status: model.LoadCorrupt, Detail: err.Error()}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return model.LoadReport{Path: path, Status: model.LoadCorrupt, Detail: err.Error()}
	}
	return model.LoadReport{Path: path, Status: model.LoadOK}
}

// writeDocument encodes v as indented JSON and replaces path with it in one
// step, so concurrent readers see either the old or the new document.
func writeDocument(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// restrictToOwner sets path to mode 0600. Windows has no equivalent
// permission bits, so the call is a no-op there.
func restrictToOwner(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("restrict permissions on %s: %w", path, err)
	}
	return nil
}
