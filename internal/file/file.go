// Package file holds filesystem helpers shared across the CLI.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

// Opts for file attachments.
type AttachmentOpts struct {
	Files []string
}

// File represents a parsed attachment.
type File struct {
	Path    string
	Content string
}

// GetOpts on the given command.
func GetOpts(cmd *cobra.Command) *AttachmentOpts {
	opts := &AttachmentOpts{}
	cmd.Flags().StringSliceVarP(&opts.Files, "file", "f", nil, "attach the content of a file to the conversation")
	return opts
}

// Parse attachment files. Binary content is rejected, not fatal: the
// caller reports the error and the session carries on.
func Parse(opts *AttachmentOpts) ([]*File, error) {
	files := make([]*File, 0, len(opts.Files))
	for _, path := range opts.Files {
		file, err := Read(path)
		if err != nil {
			return nil, fmt.Errorf("parsing attachment (%s): %w", path, err)
		}
		files = append(files, file)
	}
	return files, nil
}

// Read a single attachment file.
func Read(path string) (*File, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if !utf8.Valid(bytes) {
		return nil, fmt.Errorf("file is not valid UTF-8 text")
	}
	return &File{Path: path, Content: string(bytes)}, nil
}

// ExpandPath expands a path to avoid `~`.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home dir: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// CreateDirectoryIfNotExist creates a directory if it doesn't already exist.
func CreateDirectoryIfNotExist(directory string) error {
	ok, err := DirectoryExists(directory)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return nil
}

// DirectoryExists returns true if the specified directory exists.
func DirectoryExists(directory string) (bool, error) {
	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking directory existence: %w", err)
	}
	return info.IsDir(), nil
}

// Exists returns true if the specified file exists.
func Exists(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking file existence: %w", err)
	}
	return !info.IsDir(), nil
}
