package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/easelkit/easel/pkg/genimage"
	"github.com/easelkit/easel/pkg/session"
)

// expandTimeout bounds one generation round trip.
const expandTimeout = 2 * time.Minute

// expandCommand creates the "expand" command: generate an expanded image
// variant and place it as a node on a board.
func (c *CLI) expandCommand() *cobra.Command {
	var (
		boardRef string
		sourceID string
		imageURL string
		prompt   string
		ratio    string
		anchor   string
	)

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Generate an expanded image variant and place it on a board",
		Long: `Call the generation service to expand a source image, then place the
result as a node on a board, anchored near the source rectangle.

The anchor describes where the source thumbnail sits on the canvas
(x,y,w,h); the new node spawns offset from it. A cancelled or failed
generation places no node.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			anchorRect, err := parseAnchor(anchor)
			if err != nil {
				return err
			}

			store, err := c.openBoardStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			b, err := resolveBoard(ctx, store, boardRef)
			if err != nil {
				return err
			}

			apiKey := c.loadAPIKey(ctx)
			client := genimage.NewClient(c.Config.Service.BaseURL, apiKey)

			genCtx, cancel := context.WithTimeout(ctx, expandTimeout)
			defer cancel()

			spinner := newSpinnerWithContext(genCtx, "Generating expansion...")
			spinner.Start()

			result, err := client.Expand(genCtx, genimage.Request{
				SourceURL:  imageURL,
				Prompt:     prompt,
				RatioLabel: ratio,
				Model:      c.Config.Service.Model,
			})
			if err != nil {
				spinner.StopWithError("Generation failed")
				return err
			}
			spinner.UpdateMessage("Placing node...")

			m, err := b.ToManager()
			if err != nil {
				spinner.Stop()
				return err
			}
			node, err := m.Create(sourceID, result.ImageURL, result.RatioLabel, anchorRect)
			if err != nil {
				spinner.Stop()
				return err
			}
			b.FromManager(m)
			if err := store.Save(ctx, b); err != nil {
				spinner.Stop()
				return fmt.Errorf("save board: %w", err)
			}
			spinner.Stop()

			printSuccess("Placed node %s on %s", StyleHighlight.Render(shortID(node.ID)), b.Name)
			printKeyValue("Position", fmt.Sprintf("(%.0f,%.0f)", node.Pos.X, node.Pos.Y))
			printKeyValue("Image", result.ImageURL)
			printNextStep("Inspect the board", "easel board show "+b.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&boardRef, "board", "b", "", "target board name or ID")
	cmd.Flags().StringVarP(&sourceID, "source", "s", "", "source element ID the node anchors to")
	cmd.Flags().StringVarP(&imageURL, "image", "i", "", "source image URL to expand")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "optional guidance prompt")
	cmd.Flags().StringVarP(&ratio, "ratio", "r", "", "target aspect ratio label (e.g. 16:9)")
	cmd.Flags().StringVarP(&anchor, "anchor", "a", "", "source anchor rectangle as x,y,w,h")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("anchor")

	return cmd
}

// loadAPIKey returns the stored service API key, or empty for anonymous
// preview-quality access.
func (c *CLI) loadAPIKey(ctx context.Context) string {
	store, err := session.NewCLIStore()
	if err != nil {
		return ""
	}
	sess, err := store.GetSession(ctx)
	if err != nil || sess == nil {
		return ""
	}
	return sess.APIKey
}
