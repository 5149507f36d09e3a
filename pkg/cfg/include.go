package cfg

import (
	"github.com/sonemaro/cfgload/pkg/glob"
	"github.com/sonemaro/cfgload/pkg/logger"
	"github.com/sonemaro/cfgload/pkg/strutil"
	"github.com/spf13/afero"
)

// include handles an "Include=<target>" line found at lineno of parent.
// Files it pulls in are parsed one level deeper and are always required.
func (r *parseRun) include(parent string, lineno int, target string, level int) error {
	path, pattern, err := glob.Split(target)
	if err != nil {
		return r.includeError(parent, lineno, target, err)
	}

	info, err := r.fs.Stat(path)
	if err != nil {
		return r.includeError(parent, lineno, target, err)
	}

	if !info.IsDir() {
		if pattern != "" {
			return r.includeError(parent, lineno, target, ErrNotDirectory)
		}
		_, err := r.parseFile(path, level+1, false)
		return err
	}

	return r.parseDir(path, pattern, level+1)
}

// parseDir parses every regular file in dir whose name matches pattern (all
// of them when pattern is empty), in name order. Subdirectories are not
// descended into.
func (r *parseRun) parseDir(dir, pattern string, level int) error {
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		r.log.WithFields(logger.Fields{
			"dir":   dir,
			"error": err,
		}).Error("Cannot read include directory")
		return &FileError{Op: ErrOpen, File: dir, Err: err}
	}

	r.log.WithFields(logger.Fields{
		"dir":     dir,
		"pattern": pattern,
		"entries": len(entries),
	}).Debug("Including directory")
	r.visited(dir)

	var file string
	for _, entry := range entries {
		if dir == string(glob.Separator) {
			strutil.Dsprintf(&file, "%s%s", dir, entry.Name())
		} else {
			strutil.Dsprintf(&file, "%s%c%s", dir, glob.Separator, entry.Name())
		}

		// Stat follows symlinks, so a link to a regular file counts.
		info, err := r.fs.Stat(file)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		if pattern != "" && !glob.Match(entry.Name(), pattern) {
			continue
		}

		if _, err := r.parseFile(file, level, false); err != nil {
			return err
		}
	}

	return nil
}

func (r *parseRun) includeError(parent string, lineno int, target string, err error) error {
	r.log.WithFields(logger.Fields{
		"file":   parent,
		"line":   lineno,
		"target": target,
		"error":  err,
	}).Error("Cannot resolve include")

	return &IncludeError{File: parent, Line: lineno, Target: target, Err: err}
}
