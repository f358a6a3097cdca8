package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	platformerrors "github.com/jmgilman/sysfs/errors"
	"github.com/jmgilman/sysfs/exec"
	"github.com/jmgilman/sysfs/fsobj"
	"github.com/jmgilman/sysfs/fspath"
)

func printField(w io.Writer, name string, value any) {
	fmt.Fprintf(w, "%s %v\n", label(fmt.Sprintf("%-10s", name+":")), value)
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <path>",
		Short: "Show how a path string is decomposed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := fspath.New(args[0])
			out := cmd.OutOrStdout()

			printField(out, "full", p.FullPath())
			printField(out, "unified", p.UnifiedPath())
			printField(out, "directory", p.DirectoryPath())
			printField(out, "file", p.FileName())
			printField(out, "base", p.BaseName())
			printField(out, "extension", p.Extension())
			printField(out, "drive", p.DriveLetter())
			printField(out, "absolute", p.IsAbsolute())
			printField(out, "content", p.PointsToContent())
			printField(out, "resolved", p.Resolved())
			return nil
		},
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <base> <other>",
		Short: "Resolve a path against a base path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved := fspath.New(args[0]).Resolve(fspath.New(args[1]))
			fmt.Fprintln(cmd.OutOrStdout(), resolved.String())
			return nil
		},
	}
}

func newStatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>",
		Short: "Show metadata of a filesystem object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj := a.object(cmd, args[0])
			if !obj.Exists() {
				return platformerrors.Newf(platformerrors.CodeNotFound, "%s does not exist", args[0])
			}

			out := cmd.OutOrStdout()
			printField(out, "path", obj.FullPath())
			printField(out, "type", obj.TypeString())
			printField(out, "symlink", obj.IsSymbolicLink())
			printField(out, "mode", fmt.Sprintf("%04o", obj.Mode()))
			printField(out, "inode", obj.Inode())
			printField(out, "links", obj.LinkCount())
			printField(out, "owner", fmt.Sprintf("%s (%d)", obj.Owner(), obj.UID()))
			printField(out, "group", fmt.Sprintf("%s (%d)", obj.Group(), obj.GID()))
			printField(out, "size", obj.Size())
			printField(out, "blocks", obj.BlockCount())
			printField(out, "blksize", obj.BlockSize())
			printField(out, "accessed", obj.LastAccessTime().Format(time.RFC3339))
			printField(out, "modified", obj.LastUpdateTime().Format(time.RFC3339))
			printField(out, "changed", obj.CreationTime().Format(time.RFC3339))
			return nil
		},
	}
}

func newLsCmd(a *app) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "ls <dir>",
		Short: "List a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := fsobj.NewDir(args[0], a.objectOptions(cmd)...)

			var entries []*fsobj.Object
			var err error
			if pattern != "" {
				entries, err = dir.Glob(pattern)
			} else {
				entries, err = dir.Entries()
			}
			if err != nil {
				return err
			}

			sorted := make([]*fsobj.Object, len(entries))
			copy(sorted, entries)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i].FileName() < sorted[j].FileName()
			})

			for _, entry := range sorted {
				fmt.Fprintln(cmd.OutOrStdout(), renderEntry(entry))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "glob", "g", "", "Only list entries whose name matches the pattern (e.g. '*.go', '{a,b}*')")
	return cmd
}

func newMkdirCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory and its parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return create(cmd, fsobj.NewTyped(args[0], fsobj.TypeDirectory, a.objectOptions(cmd)...), a.cfg.DirMode)
		},
	}
}

func newTouchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "touch <path>",
		Short: "Create a regular file and its parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return create(cmd, fsobj.NewTyped(args[0], fsobj.TypeRegularFile, a.objectOptions(cmd)...), a.cfg.FileMode)
		},
	}
}

// create creates obj and prints where it ended up, which differs from the
// requested path when another kind of object already occupied it.
func create(cmd *cobra.Command, obj *fsobj.Object, mode uint32) error {
	if err := obj.Create(mode); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), obj.FullPath())
	return nil
}

func newCpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.object(cmd, args[0]).Copy(args[1])
		},
	}
}

func newMvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <src> <dst>",
		Short: "Move a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.object(cmd, args[0]).Move(args[1])
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove a file, symlink or directory tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.object(cmd, args[0]).Remove()
		},
	}
}

func newLnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ln <target> <link>",
		Short: "Create a symbolic link to target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.object(cmd, args[0]).CreateSymLink(args[1])
		},
	}
}

func newUnlinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <link>",
		Short: "Remove a symbolic link and print its target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj := a.object(cmd, args[0])
			if err := obj.RemoveSymLink(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), obj.FullPath())
			return nil
		},
	}
}

func newChmodCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chmod <octal-mode> <path>",
		Short: "Change permission bits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0o"), 8, 32)
			if err != nil || mode > 0o7777 {
				return platformerrors.Newf(platformerrors.CodeInvalidInput, "invalid mode %q", args[0])
			}
			return a.object(cmd, args[1]).ChangeMode(uint32(mode))
		},
	}
}

func newChownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chown <owner> <path>",
		Short: "Change the owning user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.object(cmd, args[1]).SetOwner(args[0])
		},
	}
}

func newChgrpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chgrp <group> <path>",
		Short: "Change the owning group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.object(cmd, args[1]).SetGroup(args[0])
		},
	}
}

func newShCmd(a *app) *cobra.Command {
	var devNull bool
	var stream bool
	var dir string

	cmd := &cobra.Command{
		Use:   "sh <command text>",
		Short: "Run command text through the configured shell",
		Long: "Run command text through the configured shell.\n\n" +
			"A trailing \"> path\" writes the captured output to path instead of the\n" +
			"terminal's redirection, creating parent directories as needed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			execOpts := a.cfg.ExecutorOptions()
			if dir != "" {
				execOpts = append(execOpts, exec.WithDir(dir))
			}
			if stream {
				execOpts = append(execOpts,
					exec.WithPassthrough(),
					exec.WithStdout(cmd.OutOrStdout()),
					exec.WithStderr(cmd.ErrOrStderr()),
				)
			}
			opts := append(a.cfg.ShellOptions(a.logger), exec.WithExecutor(exec.New(execOpts...)))

			sh := exec.NewShellCommand(strings.Join(args, " "), opts...)
			if !sh.IsShellAvailable() {
				return platformerrors.Newf(platformerrors.CodeUnavailable, "shell %s is not available", a.cfg.Shell)
			}

			if !sh.ExecuteContext(cmd.Context(), devNull) {
				err := platformerrors.Newf(platformerrors.CodeExecutionFailed, "command failed: %s", sh.Command())
				if msg := strings.TrimRight(sh.ErrorMessage(), "\n"); msg != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), msg)
				}
				return err
			}

			if !stream && sh.OutPath() == "" && !devNull {
				for _, line := range sh.OutputLines() {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
			}
			return nil
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&devNull, "devnull", false, "Discard output and report only the exit status")
	cmd.Flags().BoolVar(&stream, "stream", false, "Stream output while the command runs")
	cmd.Flags().StringVar(&dir, "dir", "", "Working directory of the command")
	return cmd
}
