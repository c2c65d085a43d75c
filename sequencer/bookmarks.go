package sequencer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-autotracker/config"
)

// ErrNoBookmark is returned when deleting a code that was never bookmarked
var ErrNoBookmark = errors.New("no such bookmark")

// Bookmark is a saved save code. Only the code is stored; the song
// regenerates from it.
type Bookmark struct {
	Code      string    `json:"code"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Label is the name, or the timestamp for unnamed bookmarks
func (b Bookmark) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Timestamp.Format("2006-01-02_15-04-05")
}

// BookmarksPath returns the bookmarks file in the config directory
func BookmarksPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookmarks.json"), nil
}

// ListBookmarks returns all bookmarks, newest first
func ListBookmarks() ([]Bookmark, error) {
	path, err := BookmarksPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Bookmark{}, nil
		}
		return nil, err
	}

	var marks []Bookmark
	if err := json.Unmarshal(data, &marks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	sort.SliceStable(marks, func(i, j int) bool {
		return marks[i].Timestamp.After(marks[j].Timestamp)
	})
	return marks, nil
}

// AddBookmark validates and stores a save code. Re-adding a code updates
// its name and timestamp.
func AddBookmark(code, name string) (Bookmark, error) {
	if _, err := Decode(code); err != nil {
		return Bookmark{}, err
	}
	code = strings.ToLower(code)

	marks, err := ListBookmarks()
	if err != nil {
		return Bookmark{}, err
	}
	b := Bookmark{Code: code, Name: strings.TrimSpace(name), Timestamp: time.Now()}

	replaced := false
	for i := range marks {
		if marks[i].Code == code {
			marks[i] = b
			replaced = true
		}
	}
	if !replaced {
		marks = append(marks, b)
	}
	return b, writeBookmarks(marks)
}

// DeleteBookmark removes a code
func DeleteBookmark(code string) error {
	marks, err := ListBookmarks()
	if err != nil {
		return err
	}
	code = strings.ToLower(code)
	kept := marks[:0]
	for _, m := range marks {
		if m.Code != code {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(marks) {
		return fmt.Errorf("%s: %w", code, ErrNoBookmark)
	}
	return writeBookmarks(kept)
}

func writeBookmarks(marks []Bookmark) error {
	path, err := BookmarksPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(marks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
