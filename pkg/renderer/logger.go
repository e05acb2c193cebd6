package renderer

import (
	"fmt"
	"io"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultLogger writes render progress to an io.Writer, stdout by default
type DefaultLogger struct {
	out io.Writer
}

// NewDefaultLogger creates a logger that prints to stdout
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{out: os.Stdout}
}

// NewWriterLogger creates a logger that prints to out
func NewWriterLogger(out io.Writer) core.Logger {
	return &DefaultLogger{out: out}
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(dl.out, format, args...)
}
