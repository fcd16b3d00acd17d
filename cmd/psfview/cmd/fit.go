package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psfguard/psfview/pkg/tier"
	"github.com/psfguard/psfview/pkg/viewport"
)

var (
	fitContainer string
	fitImage     string
	fitCanonical string
	fitJSON      bool
)

// FitResult is the layout of an image at fit.
type FitResult struct {
	Scale       float64 `json:"scale"`
	OffsetX     float64 `json:"offset_x"`
	OffsetY     float64 `json:"offset_y"`
	VisualScale float64 `json:"visual_scale"`
	Percent     int     `json:"percent"`
	Overflow    bool    `json:"overflow"`
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Compute the fit transform of an image in a container",
	Long: `Compute the transform a pane uses when it first shows an image: the
scale at which the image fits the container after padding, centered.

With --canonical the visual scale is reported relative to the original
resolution, as the zoom percentage shown in the viewer.

Examples:
  psfview fit --container 800x600 --image 4000x3000
  psfview fit --container 800x600 --image 2000x1500 --canonical 8000x6000 --json`,
	RunE: runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)
	fitCmd.Flags().StringVar(&fitContainer, "container", "", "container size WxH (required)")
	fitCmd.Flags().StringVar(&fitImage, "image", "", "displayed image size WxH (required)")
	fitCmd.Flags().StringVar(&fitCanonical, "canonical", "", "original resolution WxH")
	fitCmd.Flags().BoolVar(&fitJSON, "json", false, "output JSON")
	fitCmd.MarkFlagRequired("container")
	fitCmd.MarkFlagRequired("image")
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := cfg.Engine()
	if err != nil {
		return err
	}

	container, err := tier.ParseDimensions(fitContainer)
	if err != nil {
		return fmt.Errorf("--container: %w", err)
	}
	img, err := tier.ParseDimensions(fitImage)
	if err != nil {
		return fmt.Errorf("--image: %w", err)
	}
	var canonicalWidth float64
	if fitCanonical != "" {
		c, err := tier.ParseDimensions(fitCanonical)
		if err != nil {
			return fmt.Errorf("--canonical: %w", err)
		}
		canonicalWidth = float64(c.Width)
	}

	rect := viewport.Rect{Width: float64(container.Width), Height: float64(container.Height)}
	vp := viewport.New(rect, &engine.Viewport)
	vp.SetImage(viewport.Size{Width: float64(img.Width), Height: float64(img.Height)}, canonicalWidth)

	t := vp.Transform()
	res := FitResult{
		Scale:       t.Scale,
		OffsetX:     t.OffsetX,
		OffsetY:     t.OffsetY,
		VisualScale: vp.VisualScale(),
		Percent:     vp.ZoomPercentage(),
		Overflow:    vp.HasOverflow(),
	}

	out := cmd.OutOrStdout()
	if fitJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(out, "Container:    %s\n", container)
	fmt.Fprintf(out, "Image:        %s\n", img)
	fmt.Fprintf(out, "Scale:        %.4f\n", res.Scale)
	fmt.Fprintf(out, "Offset:       (%.2f, %.2f)\n", res.OffsetX, res.OffsetY)
	fmt.Fprintf(out, "Visual scale: %.4f (%d%%)\n", res.VisualScale, res.Percent)
	return nil
}
