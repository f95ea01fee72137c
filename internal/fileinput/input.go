// Package fileinput reads program lines sequentially from a queue of input
// streams, tracking the location of each line for diagnostics.
package fileinput

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input implements sequential line reading through a Queue of one or more
// input streams. Streams that implement io.Closer are closed once exhausted.
type Input struct {
	Queue []io.Reader

	// Last is the location of the line most recently returned by ReadLine.
	Last Location

	cur  *bufio.Reader
	src  io.Reader
	name string
	line int
}

// ReadLine returns the next line, without its line ending, moving on to the
// next queued stream as each one runs out. Returns io.EOF once all streams
// are exhausted.
func (in *Input) ReadLine() (string, error) {
	for {
		if in.cur == nil && !in.nextIn() {
			return "", io.EOF
		}

		s, err := in.cur.ReadString('\n')
		if len(s) > 0 {
			in.line++
			in.Last = Location{in.name, in.line}
			if err == io.EOF {
				err = nil
			}
			return strings.TrimRight(s, "\r\n"), err
		}
		if err == io.EOF {
			in.closeIn()
			continue
		}
		if err != nil {
			return "", err
		}
	}
}

// Close closes the current stream and any still queued.
func (in *Input) Close() (err error) {
	in.closeIn()
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) closeIn() {
	if cl, ok := in.src.(io.Closer); ok {
		cl.Close()
	}
	in.cur, in.src = nil, nil
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	in.src = in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = bufio.NewReader(in.src)
	in.name = nameOf(in.src)
	in.line = 0
	return true
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

// NamedReader attaches a name to r, for use in Locations.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
