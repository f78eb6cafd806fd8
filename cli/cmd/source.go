package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/ardnew/argx/log"
)

// stdinSource names standard input in --file.
const stdinSource = "-"

// maxLine bounds one expression read from a source file.
const maxLine = 1 << 20

// Input is one expression and where it came from.
type Input struct {
	// Origin is "arg N" for positional arguments and "PATH:LINE" for
	// expressions read from files.
	Origin string
	Text   string
}

// Sources are the expression inputs shared by all commands.
type Sources struct {
	Exprs []string `arg:"" help:"Expressions to process." name:"expr" optional:""`
	File  []string `help:"Read expressions from file, one per line ('-' for stdin)." name:"file" placeholder:"FILE" short:"f"`
}

// fileKey identifies a file by device and inode, so a file named twice,
// through a symlink, or by a relative path is read once. Where inodes are
// unavailable the resolved path stands in.
type fileKey struct {
	dev  uint64
	ino  uint64
	path string
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	if info == nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// Inputs returns the positional expressions followed by the lines of every
// distinct --file source. Standard input is read last, at most once, when
// it is named by "-" or by a path that resolves to it. Empty lines are
// skipped.
func (s Sources) Inputs(ctx context.Context) ([]Input, error) {
	inputs := make([]Input, 0, len(s.Exprs))

	for i, expr := range s.Exprs {
		inputs = append(inputs, Input{Origin: "arg " + strconv.Itoa(i+1), Text: expr})
	}

	streams := streamsFrom(ctx)

	var stdinKey fileKey

	stdinOK := false

	if f, ok := streams.In.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			stdinKey, stdinOK = makeFileKey(info)
		}
	}

	seen := make(map[fileKey]struct{})
	readStdin := false

	for _, path := range s.File {
		if path == stdinSource {
			readStdin = true

			continue
		}

		resolved, key, err := resolveSource(path)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(slog.String("file", path))
		}

		if stdinOK && key == stdinKey {
			readStdin = true

			continue
		}

		if _, dup := seen[key]; dup {
			log.Default().DebugContext(ctx, "skip duplicate source",
				slog.String("file", path))

			continue
		}

		seen[key] = struct{}{}

		lines, err := readFileLines(path, resolved)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, lines...)
	}

	if readStdin {
		lines, err := readLines(stdinSource, streams.In)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, lines...)
	}

	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	return inputs, nil
}

// resolveSource follows path to the file it names.
func resolveSource(path string) (string, fileKey, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if !ok {
		key = fileKey{path: resolved}
	}

	return resolved, key, nil
}

func readFileLines(name, path string) ([]Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadSource.Wrap(err).With(slog.String("file", name))
	}
	defer f.Close()

	return readLines(name, f)
}

func readLines(name string, r io.Reader) ([]Input, error) {
	var inputs []Input

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}

		inputs = append(inputs, Input{
			Origin: name + ":" + strconv.Itoa(line),
			Text:   sc.Text(),
		})
	}

	if err := sc.Err(); err != nil {
		return nil, ErrReadSource.Wrap(err).With(slog.String("file", name))
	}

	return inputs, nil
}
