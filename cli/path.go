package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/quux/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// stdinSource names standard input wherever a source file is expected.
const stdinSource = "-"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the prefix used for the configuration and cache
// directory names and for environment variable identifiers.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with cmd
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name, // dlv default output
			regexp.MustCompile(`^\.+`):             "",       // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = pkg.Name
		}

		return id
	},
)

// userDir returns the directory for the given base lookup, falling back to
// a dot-directory in the home directory, then the working directory.
func userDir(lookup func() (string, error), dot string) string {
	dir, err := lookup()
	if err == nil {
		return filepath.Join(dir, basePrefix())
	}

	if dir, err = os.UserHomeDir(); err == nil {
		return filepath.Join(dir, dot, basePrefix())
	}

	if dir, err = os.Getwd(); err == nil {
		return filepath.Join(dir, basePrefix())
	}

	return basePrefix()
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the cache directory path used for transient files such
// as REPL history and profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath returns the path formed by joining the configuration directory
// with elem. With no elements it is equivalent to [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// cachePath returns the path formed by joining the cache directory with
// elem.
func cachePath(elem ...string) string {
	return filepath.Join(append([]string{cacheDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// sourcePathEnv returns the name of the environment variable listing
// directories searched for source files, e.g. QUUX_PATH.
func sourcePathEnv() string {
	return strings.ToUpper(strings.ReplaceAll(basePrefix(), "-", "_")) + "_PATH"
}

// sourcePath returns the directories searched for relative source names:
// the configuration directory followed by each existing directory of
// env. Entries that are not directories are dropped.
func sourcePath(env string) []string {
	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(configDir()),
	).String()

	return slices.DeleteFunc(filepath.SplitList(list), func(dir string) bool {
		return !isDir(dir)
	})
}

// resolveSource returns the path of the named source file. Names that
// exist relative to the working directory, absolute paths, and stdin are
// returned unchanged. Otherwise the first match in dirs is returned, or
// name if there is none.
func resolveSource(name string, dirs []string) string {
	if name == stdinSource || filepath.IsAbs(name) || isFile(name) {
		return name
	}

	for _, dir := range dirs {
		if path := filepath.Join(dir, name); isFile(path) {
			return path
		}
	}

	return name
}

// resolveSources resolves each name against the source search path.
func resolveSources(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	dirs := sourcePath(os.Getenv(sourcePathEnv()))
	out := make([]string, len(names))

	for i, name := range names {
		out[i] = resolveSource(name, dirs)
	}

	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
