package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipeview/internal/intake"
	"recipeview/internal/recipe"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <number|name>",
		Short: "Show recipe details, fetching its image if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bench, err := ctx.newWorkbench()
			if err != nil {
				return err
			}
			defer bench.Close()

			session, err := loadSession(cmd, bench, loadOptions{progress: true})
			if err != nil {
				return err
			}

			index, rec, err := resolveRecipe(session, args[0])
			if err != nil {
				return err
			}
			var path string
			if session.ImageState(rec) != intake.ImageUnavailable {
				path, _ = session.EnsureImage(cmd.Context(), rec)
			}
			fmt.Fprintln(cmd.OutOrStdout(), recipeDetails(rec, index, path))
			return nil
		},
	}
}

// resolveRecipe accepts a 1-based list number or a recipe name.
func resolveRecipe(session *intake.Session, arg string) (int, recipe.Record, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, recipe.Record{}, errors.New("recipe number or name is required")
	}
	if number, err := strconv.Atoi(arg); err == nil {
		rec, ok := session.Record(number - 1)
		if !ok {
			return 0, recipe.Record{}, fmt.Errorf("recipe %d out of range (%d recipes loaded)", number, session.Len())
		}
		return number - 1, rec, nil
	}
	index, ok := session.Find(arg)
	if !ok {
		return 0, recipe.Record{}, fmt.Errorf("no recipe named %q", arg)
	}
	rec, _ := session.Record(index)
	return index, rec, nil
}
