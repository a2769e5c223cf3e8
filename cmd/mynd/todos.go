package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mynd/internal/todo"
	"mynd/internal/ui"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <message>...",
		Short: "Add a todo at the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if strings.TrimSpace(message) == "" {
				return errors.New("empty todo message")
			}
			return a.withList(cmd.Context(), func(list *todo.List) error {
				rec, err := list.Add(message)
				if err != nil {
					return err
				}
				a.infof(cmd.OutOrStdout(), "added %s\n", rec.ID.Short())
				return nil
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		all    bool
		format string
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List open todos, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q (must be table or json)", format)
			}
			return a.withList(cmd.Context(), func(list *todo.List) error {
				records, err := list.GetAll()
				if err != nil {
					return err
				}
				if !all {
					open := records[:0]
					for _, r := range records {
						if !r.Done {
							open = append(open, r)
						}
					}
					records = open
				}

				out := cmd.OutOrStdout()
				if format == "json" {
					if records == nil {
						records = []todo.Record{}
					}
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(records)
				}
				fmt.Fprint(out, ui.RenderTodos(records, ui.TableOptions{
					Width: terminalWidth(out),
					Color: a.color,
				}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include done todos")
	cmd.Flags().StringVar(&format, "format", "table", "output format (table|json)")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete todos by id or unique id prefix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withList(cmd.Context(), func(list *todo.List) error {
				for _, arg := range args {
					id, err := resolve(list, arg)
					if err != nil {
						return err
					}
					if err := list.Remove(id); err != nil {
						return fmt.Errorf("%s: %w", arg, err)
					}
					a.infof(cmd.OutOrStdout(), "removed %s\n", id.Short())
				}
				return nil
			})
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle the done state of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withList(cmd.Context(), func(list *todo.List) error {
				id, err := resolve(list, args[0])
				if err != nil {
					return err
				}
				rec, err := list.MarkDone(id)
				if err != nil {
					return err
				}
				verb := "reopened"
				if rec.Done {
					verb = "done"
				}
				a.infof(cmd.OutOrStdout(), "%s %s\n", verb, rec.ID.Short())
				return nil
			})
		},
	}
}

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete every done todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withList(cmd.Context(), func(list *todo.List) error {
				n, err := list.RemoveDone()
				if err != nil {
					return err
				}
				a.infof(cmd.OutOrStdout(), "removed %d done todos\n", n)
				return nil
			})
		},
	}
}

// newMoveCmd builds `up` and `down`.
func newMoveCmd(a *app, dir string) *cobra.Command {
	return &cobra.Command{
		Use:   dir + " <id>",
		Short: "Move a todo one position " + dir,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withList(cmd.Context(), func(list *todo.List) error {
				id, err := resolve(list, args[0])
				if err != nil {
					return err
				}
				if dir == "up" {
					return list.MoveUp(id)
				}
				return list.MoveDown(id)
			})
		},
	}
}

func newBelowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "below <id> <target>",
		Short: "Move a todo directly below another one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withList(cmd.Context(), func(list *todo.List) error {
				id, err := resolve(list, args[0])
				if err != nil {
					return err
				}
				target, err := resolve(list, args[1])
				if err != nil {
					return err
				}
				err = list.MoveBelow(id, target)
				if errors.Is(err, todo.ErrNoop) {
					a.infof(cmd.OutOrStdout(), "nothing to move: %v\n", err)
					return nil
				}
				return err
			})
		},
	}
}
