package cli

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.starlark.net/starlark"

	"github.com/joe/posixfs/internal/config"
	"github.com/joe/posixfs/pkg/filesystem"
	"github.com/joe/posixfs/pkg/starlarkfs"
)

// Run executes a Starlark script with the posixfs module and argv predeclared.
// If the script defines main(), it is called after the top level runs.
func (r *Runner) Run(cmd *config.RunCmd) error {
	var fsys filesystem.FileSystem = filesystem.NewRealFileSystem(r.fsOptions()...)

	if cmd.Remote != "" {
		remote, _, closeFS, err := r.openFileSystem(cmd.Remote)
		if err != nil {
			return err
		}
		defer closeFS()

		fsys = remote
	}

	predeclared := starlarkfs.Predeclared(fsys)
	predeclared["argv"] = argvList(cmd.Script, cmd.Args)

	thread := &starlark.Thread{
		Name: cmd.Script,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(r.stdout, msg)
		},
	}

	r.logger.Debug("running script", "script", cmd.Script, "args", cmd.Args)

	globals, err := starlarkfs.ExecFileWith(thread, cmd.Script, nil, predeclared)
	if err != nil {
		return scriptError(err)
	}

	main, ok := globals["main"].(starlark.Callable)
	if !ok {
		return nil
	}

	_, err = starlark.Call(thread, main, nil, nil)
	if err != nil {
		return scriptError(err)
	}

	return nil
}

func argvList(script string, args []string) *starlark.List {
	values := lo.Map(append([]string{script}, args...), func(arg string, _ int) starlark.Value {
		return starlark.String(arg)
	})

	list := starlark.NewList(values)
	list.Freeze()

	return list
}

// backtraceError prints the whole Starlark backtrace. Unwrap is promoted, so
// errors.Is/As still reach the scan or join error that failed.
type backtraceError struct {
	*starlark.EvalError
}

func (e backtraceError) Error() string {
	return e.Backtrace()
}

func scriptError(err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return backtraceError{evalErr}
	}

	return fmt.Errorf("script failed: %w", err)
}
