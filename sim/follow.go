package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fsnotify/fsnotify"
	"github.com/google/safeopen"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

var ErrFollowedFileGone = errors.New("[sim] followed file removed or renamed")

func isKeySeparator(r rune) bool {
	return r == ',' || r == ';' || unicode.IsSpace(r)
}

// SplitKeys splits key text on commas, semicolons and white spaces.
func SplitKeys(text string) []string {
	return strings.FieldsFunc(text, isKeySeparator)
}

// LoadKeys reads every key token of the file. The name is resolved
// beneath dir, it cannot escape it.
func LoadKeys(dir, name string) ([]string, error) {
	f, err := safeopen.OpenBeneath(dir, name)
	if err != nil {
		return nil, fmt.Errorf("[sim] unable to open %s: %w", filepath.Join(dir, name), err)
	}
	defer func() {
		_ = f.Close()
	}()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return SplitKeys(string(data)), nil
}

// tailReader returns the complete tokens appended to the file since the
// previous call. A token is complete once a separator follows it.
type tailReader struct {
	f       *os.File
	pending string
}

func (r *tailReader) next() ([]string, error) {
	data, err := io.ReadAll(r.f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	text := r.pending + string(data)
	cut := strings.LastIndexFunc(text, isKeySeparator)
	r.pending = text[cut+1:]
	return SplitKeys(text[:cut+1]), nil
}

// rewind restarts from the beginning of the file if it has shrunk
// below the read offset.
func (r *tailReader) rewind() (bool, error) {
	offset, err := r.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, err
	}
	info, err := r.f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() >= offset {
		return false, nil
	}
	if _, err = r.f.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	r.pending = ""
	return true, nil
}

// reset switches to f, the previous file is closed.
func (r *tailReader) reset(f *os.File) {
	if r.f != nil {
		_ = r.f.Close()
	}
	r.f, r.pending = f, ""
}

func (r *tailReader) close() {
	if r.f != nil {
		_ = r.f.Close()
	}
}

// Follow feeds the keys already in the file and then the keys appended
// to it into the session, until ctx is done. Unparsable tokens are
// rejected by the session and skipped. A file replaced under the same
// name (created or renamed over it) or truncated is read again from its
// beginning, the keys already inserted are ignored as duplicates.
func Follow[K infra.OrderedKey](ctx context.Context, s *Session[K], dir, name string) error {
	f, err := safeopen.OpenBeneath(dir, name)
	if err != nil {
		return fmt.Errorf("[sim] unable to open %s: %w", filepath.Join(dir, name), err)
	}
	r := &tailReader{f: f}
	defer r.close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()
	// Watch the directory, editors replace files and a watch on the
	// file itself would be lost.
	if err = watcher.Add(dir); err != nil {
		return err
	}

	target := filepath.Clean(filepath.Join(dir, name))
	feed := func() error {
		tokens, err := r.next()
		if err != nil {
			return err
		}
		for _, token := range tokens {
			if _, err = s.InsertText(ctx, token); err != nil && !errors.Is(err, tree.ErrNonOrderableKey) {
				return err
			}
		}
		return nil
	}
	reopen := func() error {
		nf, err := safeopen.OpenBeneath(dir, name)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFollowedFileGone, target, err)
		}
		r.reset(nf)
		return feed()
	}
	if err = feed(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			switch {
			case event.Has(fsnotify.Create):
				err = reopen()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				return fmt.Errorf("%w: %s", ErrFollowedFileGone, target)
			case event.Has(fsnotify.Write):
				if _, err = r.rewind(); err == nil {
					err = feed()
				}
			default:
			}
			if err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
