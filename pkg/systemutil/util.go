package systemutil

import (
	"context"
	"fmt"
	"io"

	"github.com/hpcloud/tail"
)

// StreamLog prints a log file to out. With follow it keeps printing appended
// lines until ctx is cancelled.
func StreamLog(ctx context.Context, path string, out io.Writer, follow bool) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Wait()
			}
			if line.Err != nil {
				return line.Err
			}
			fmt.Fprintln(out, line.Text)
		}
	}
}
