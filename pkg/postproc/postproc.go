// Package postproc launches the external report generator on a finished
// result folder. The generator (cocopp) is an optional dependency: when it
// cannot be located the caller skips post-processing, never failing the
// run.
package postproc

import (
	"context"
	"os"
	"os/exec"
	"runtime"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
)

// Tool is a located post-processing entry point.
type Tool struct {
	path string
	args []string
}

// Find locates the post-processing tool: a cocopp binary on the PATH, or a
// Python interpreter to run the cocopp module with. The second return is
// false when neither exists.
func Find() (*Tool, bool) {
	if path, err := exec.LookPath("cocopp"); err == nil {
		return &Tool{path: path}, true
	}
	for _, python := range []string{"python3", "python"} {
		if path, err := exec.LookPath(python); err == nil {
			return &Tool{path: path, args: []string{"-m", "cocopp"}}, true
		}
	}
	return nil, false
}

// Command describes the invocation without running it.
func (t *Tool) Command(resultFolder string) (string, []string) {
	return t.path, append(append([]string(nil), t.args...), resultFolder)
}

// Run generates the report for the result folder, forwarding the tool's
// output to the current process.
func (t *Tool) Run(ctx context.Context, resultFolder string) error {
	name, args := t.Command(resultFolder)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "post-processing failed"),
			errors.Fields{"tool": name, "folder": resultFolder},
		)
	}
	return nil
}

// OpenBrowser opens the generated results index in the local browser.
func OpenBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	if err := exec.Command(name, args...).Start(); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to open browser"),
			errors.Fields{"url": url},
		)
	}
	return nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
