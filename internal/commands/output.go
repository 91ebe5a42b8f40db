package commands

import (
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// stderr returns the root command's error writer, or os.Stderr.
func stderr(c *cli.Command) io.Writer {
	if w := c.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// stdout returns the root command's writer, or os.Stdout.
func stdout(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
