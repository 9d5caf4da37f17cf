package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easelkit/easel/pkg/board"
	"github.com/easelkit/easel/pkg/errors"
	"github.com/easelkit/easel/pkg/render"
)

// boardCommand creates the board management command.
func (c *CLI) boardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
		Long: `Create, inspect, render, and export boards.

A board is a named arrangement of expanded-image nodes with positions.
Boards are stored in the configured backend (files by default).`,
	}

	cmd.AddCommand(c.boardNewCommand())
	cmd.AddCommand(c.boardListCommand())
	cmd.AddCommand(c.boardShowCommand())
	cmd.AddCommand(c.boardRenderCommand())
	cmd.AddCommand(c.boardExportCommand())
	cmd.AddCommand(c.boardDeleteCommand())

	return cmd
}

// boardNewCommand creates the "board new" subcommand.
func (c *CLI) boardNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new empty board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateBoardName(args[0]); err != nil {
				return err
			}

			store, err := c.openBoardStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			b := board.New(args[0])
			if err := store.Save(ctx, b); err != nil {
				return fmt.Errorf("save board: %w", err)
			}

			printSuccess("Created board %s", StyleHighlight.Render(b.Name))
			printDetail("ID: %s", b.ID)
			printNextStep("Add a node", fmt.Sprintf("easel expand --board %s --image <url> --source <id> --anchor x,y,w,h", b.Name))
			return nil
		},
	}
}

// boardListCommand creates the "board list" subcommand.
func (c *CLI) boardListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openBoardStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			list, err := store.List(ctx)
			if err != nil {
				return fmt.Errorf("list boards: %w", err)
			}
			if len(list) == 0 {
				printInfo("No boards yet")
				printNextStep("Create one", "easel board new <name>")
				return nil
			}

			for _, s := range list {
				fmt.Printf("%s  %s %s\n",
					StyleValue.Render(fmt.Sprintf("%-24s", s.Name)),
					StyleDim.Render(shortID(s.ID)),
					StyleDim.Render(fmt.Sprintf("(%d nodes)", s.NodeCount)),
				)
			}
			return nil
		},
	}
}

// boardShowCommand creates the "board show" subcommand.
func (c *CLI) boardShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <board>",
		Short: "Show a board's nodes and positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openBoardStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			b, err := resolveBoard(ctx, store, args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(b.Name))
			printKeyValue("ID", b.ID)
			printKeyValue("Updated", b.UpdatedAt.Format("Jan 2, 2006 15:04"))
			printNewline()

			if len(b.Nodes) == 0 {
				printInfo("Board is empty")
				return nil
			}
			for _, n := range b.Nodes {
				ratio := n.RatioLabel
				if ratio == "" {
					ratio = "—"
				}
				fmt.Printf("  %s %s  %s  %s\n",
					StyleHighlight.Render(shortID(n.ID)),
					StyleDim.Render(fmt.Sprintf("(%.0f,%.0f)", n.X, n.Y)),
					StyleDim.Render(ratio),
					StyleLink.Render(n.ImageURL),
				)
			}
			printBoardStats(len(b.Nodes), 0, false)
			return nil
		},
	}
}

// boardRenderCommand creates the "board render" subcommand.
func (c *CLI) boardRenderCommand() *cobra.Command {
	var (
		output   string
		detailed bool
		dotOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "render <board>",
		Short: "Render a board to SVG (or DOT)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			store, err := c.openBoardStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			b, err := resolveBoard(ctx, store, args[0])
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			dot := render.ToDOT(b, render.Options{Detailed: detailed})

			if dotOnly {
				if output == "" {
					fmt.Print(dot)
					return nil
				}
				if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printFile(output)
				return nil
			}

			svg, err := render.RenderSVG(ctx, dot)
			if err != nil {
				return fmt.Errorf("render SVG: %w", err)
			}
			if output == "" {
				output = safeFilename(b.Name) + ".svg"
			}
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done(fmt.Sprintf("Rendered %d nodes", len(b.Nodes)))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include source IDs and ratios in labels")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "emit Graphviz DOT instead of SVG")
	return cmd
}

// boardExportCommand creates the "board export" subcommand.
func (c *CLI) boardExportCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "export <board>",
		Short: "List the board's (id, imageUrl) export pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openBoardStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			b, err := resolveBoard(ctx, store, args[0])
			if err != nil {
				return err
			}
			m, err := b.ToManager()
			if err != nil {
				return err
			}
			exports := m.Exports()

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(exports)
			}
			for _, e := range exports {
				fmt.Printf("%s  %s\n", shortID(e.ID), e.ImageURL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}

// boardDeleteCommand creates the "board delete" subcommand.
func (c *CLI) boardDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <board>",
		Short: "Delete a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openBoardStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			b, err := resolveBoard(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(ctx, b.ID); err != nil {
				return fmt.Errorf("delete board: %w", err)
			}
			printSuccess("Deleted board %s", b.Name)
			return nil
		},
	}
}

// shortID truncates a UUID to its first segment for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// safeFilename turns a board name into a filesystem-safe file stem.
func safeFilename(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, name)
	if s == "" {
		s = "board"
	}
	return filepath.Base(s)
}
