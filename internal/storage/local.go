// Package storage keeps uploaded files on the local disk. Paths are derived
// from the owner's id, so a new upload replaces the previous one.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultAvatar is returned for users who never uploaded one.
const DefaultAvatar = "avatars/default.png"

var avatarExts = []string{"png", "jpg", "jpeg"}

type Local struct {
	AvatarDir string
	TaskDir   string
}

func NewLocal(avatarDir, taskDir string) *Local {
	return &Local{AvatarDir: avatarDir, TaskDir: taskDir}
}

// SaveAvatar stores r as user_<id>.png after removing every earlier variant.
// An empty upload leaves the current avatar in place and reports false.
func (l *Local) SaveAvatar(userID uint, r io.Reader) (bool, error) {
	if err := os.MkdirAll(l.AvatarDir, 0o755); err != nil {
		return false, err
	}
	tmp, err := os.CreateTemp(l.AvatarDir, fmt.Sprintf(".user_%d_*", userID))
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	for _, ext := range avatarExts {
		old := filepath.Join(l.AvatarDir, fmt.Sprintf("user_%d.%s", userID, ext))
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return false, err
		}
	}
	return true, os.Rename(tmp.Name(), filepath.Join(l.AvatarDir, fmt.Sprintf("user_%d.png", userID)))
}

// AvatarPath returns "avatars/user_<id>.<ext>" for the first stored variant,
// DefaultAvatar otherwise.
func (l *Local) AvatarPath(userID uint) string {
	for _, ext := range avatarExts {
		name := fmt.Sprintf("user_%d.%s", userID, ext)
		if _, err := os.Stat(filepath.Join(l.AvatarDir, name)); err == nil {
			return "avatars/" + name
		}
	}
	return DefaultAvatar
}

// SaveTaskFile writes r to <TaskDir>/<taskID>/<safe name> and returns the
// reference "<taskID>/<safe name>" stored with the task.
func (l *Local) SaveTaskFile(taskID uint, name string, r io.Reader) (string, error) {
	safe := SafeFileName(name)
	if safe == "" {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	dir := filepath.Join(l.TaskDir, fmt.Sprint(taskID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(dir, safe))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d/%s", taskID, safe), nil
}

// SafeFileName reduces name to ASCII letters, digits, dots, dashes and
// underscores. Accents are stripped, spaces become underscores and any
// directory part is dropped.
func SafeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err == nil {
		name = stripped
	}
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(name), "_") {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}
