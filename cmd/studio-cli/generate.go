// cmd/studio-cli/generate.go
package main

import (
	"context"

	"github.com/spf13/cobra"

	"costume-studio/internal/models"
	"costume-studio/internal/studio/artifact"
	"costume-studio/internal/studio/pipeline"
	"costume-studio/internal/workers/jobkit"
)

// withSession opens the pipeline under the command deadline and runs fn.
func (c *cli) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) (interface{}, error)) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()

	s, err := c.openSession(ctx, c)
	if err != nil {
		return err
	}
	result, err := fn(ctx, s)
	if err != nil {
		return err
	}
	return c.printResult(cmd.OutOrStdout(), result)
}

type designResult struct {
	Design         *models.StructuredDesignResult `json:"design"`
	ConceptArtPath string                         `json:"conceptArtPath,omitempty"`
}

func (c *cli) designCmd() *cobra.Command {
	var briefPath string
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Generate a structured costume design from a brief",
		Long: `Reads a design brief (YAML or JSON with projectType, sceneContext,
characterProfile, psychologicalState, filmingLocation and
productionConstraints), grounds it in the filming location, runs the design
conversation and renders concept art into --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var brief models.DesignBrief
			if err := decodeFile(briefPath, &brief); err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session) (interface{}, error) {
				design, err := s.studio.GenerateDesign(ctx, brief)
				if err != nil {
					return nil, err
				}
				out := &designResult{Design: design}
				if design.ConceptArt != nil {
					path, err := c.writeArtifact("concept-art", design.ConceptArt)
					if err != nil {
						return nil, err
					}
					copied := *design
					copied.ConceptArt = nil
					out.Design = &copied
					out.ConceptArtPath = path
				}
				return out, nil
			})
		},
	}
	cmd.Flags().StringVar(&briefPath, "brief", "", "design brief file (YAML or JSON)")
	cmd.MarkFlagRequired("brief")
	return cmd
}

func (c *cli) garmentCmd() *cobra.Command {
	var description, size string
	cmd := &cobra.Command{
		Use:   "garment",
		Short: "Render a garment reference image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *session) (interface{}, error) {
				locator, err := s.studio.GenerateGarmentAsset(ctx, description, size)
				if err != nil {
					return nil, err
				}
				return c.saveLocator("garment", locator)
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "garment description")
	cmd.Flags().StringVar(&size, "size", string(artifact.Size1K), "size tier: 1K, 2K or 4K")
	cmd.MarkFlagRequired("description")
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var imagePath, directive string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a garment image with a directive",
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := readMedia(imagePath)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session) (interface{}, error) {
				locator, err := s.studio.EditGarmentImage(ctx, image.Data, image.MediaType, directive)
				if err != nil {
					return nil, err
				}
				return c.saveLocator("edited", locator)
			})
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "source image file")
	cmd.Flags().StringVar(&directive, "directive", "", "edit instruction")
	cmd.MarkFlagRequired("image")
	cmd.MarkFlagRequired("directive")
	return cmd
}

func (c *cli) fitCmd() *cobra.Command {
	var (
		modelPath, garmentPath, description, sceneContext string
		physics, lighting, action, actorConstraints       string
	)
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Render a virtual fitting of a garment on a model photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := readMedia(modelPath)
			if err != nil {
				return err
			}
			garment, err := readMedia(garmentPath)
			if err != nil {
				return err
			}
			req := pipeline.VirtualFitRequest{
				Model:       artifact.ReferenceFromArtifact(model),
				Garment:     artifact.ReferenceFromArtifact(garment),
				Description: description,
				Context:     sceneContext,
			}
			if physics != "" || lighting != "" || action != "" || actorConstraints != "" {
				req.Simulation = &models.SimulationConfig{
					Physics:          models.Physics(physics),
					Lighting:         models.Lighting(lighting),
					Action:           models.Action(action),
					ActorConstraints: actorConstraints,
				}
			}
			return c.withSession(cmd, func(ctx context.Context, s *session) (interface{}, error) {
				locator, err := s.studio.GenerateVirtualFit(ctx, req)
				if err != nil {
					return nil, err
				}
				return c.saveLocator("fit", locator)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&modelPath, "model", "", "model photo file")
	flags.StringVar(&garmentPath, "garment", "", "garment image file")
	flags.StringVar(&description, "description", "", "garment description")
	flags.StringVar(&sceneContext, "context", "", "scene context")
	flags.StringVar(&physics, "physics", "", "fabric physics: static, flow, heavy, wet")
	flags.StringVar(&lighting, "lighting", "", "lighting: natural, studio, dramatic, neon")
	flags.StringVar(&action, "action", "", "pose: idle, walking, running, fighting")
	flags.StringVar(&actorConstraints, "actor-constraints", "", "performer constraints")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("garment")
	return cmd
}

func (c *cli) analyzeCmd() *cobra.Command {
	var imagePath, constraints string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a fitted look for safety and movement",
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := readMedia(imagePath)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session) (interface{}, error) {
				return s.studio.AnalyzeFitCompatibility(ctx, image.Locator(), constraints)
			})
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "fitted image file")
	cmd.Flags().StringVar(&constraints, "constraints", "", "actor constraints")
	cmd.MarkFlagRequired("image")
	return cmd
}

func (c *cli) stressTestCmd() *cobra.Command {
	var imagePath, action string
	cmd := &cobra.Command{
		Use:   "stress-test",
		Short: "Render a short stress-test video of a fitted look",
		Long: `Starts a video generation job seeded with the image, waits for it to
finish and downloads the result into --out. This can take several minutes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := readMedia(imagePath)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session) (interface{}, error) {
				locator, err := s.studio.GenerateStressTestVideo(ctx, image.Locator(), action)
				if err != nil {
					return nil, err
				}
				video, err := jobkit.Materialize(ctx, s.downloader, locator, "video/mp4")
				if err != nil {
					return nil, err
				}
				path, err := c.writeArtifact("stress-test", video)
				if err != nil {
					return nil, err
				}
				return &mediaResult{Path: path, MediaType: video.MediaType, Bytes: len(video.Data)}, nil
			})
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "fitted image file")
	cmd.Flags().StringVar(&action, "action", "", "action to perform, e.g. a sprint or a fall")
	cmd.MarkFlagRequired("image")
	cmd.MarkFlagRequired("action")
	return cmd
}

type textResult struct {
	Text string `json:"text"`
}

func (c *cli) transcribeCmd() *cobra.Command {
	var audioPath string
	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe a voice note",
		RunE: func(cmd *cobra.Command, args []string) error {
			audio, err := readMedia(audioPath)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session) (interface{}, error) {
				text, err := s.studio.TranscribeAudio(ctx, audio.Data, audio.MediaType)
				if err != nil {
					return nil, err
				}
				return &textResult{Text: text}, nil
			})
		},
	}
	cmd.Flags().StringVar(&audioPath, "audio", "", "audio file")
	cmd.MarkFlagRequired("audio")
	return cmd
}

func (c *cli) analyzeVideoCmd() *cobra.Command {
	var videoPath string
	cmd := &cobra.Command{
		Use:   "analyze-video",
		Short: "Review rehearsal footage for costume problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			video, err := readMedia(videoPath)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session) (interface{}, error) {
				text, err := s.studio.AnalyzeVideo(ctx, video.Data, video.MediaType)
				if err != nil {
					return nil, err
				}
				return &textResult{Text: text}, nil
			})
		},
	}
	cmd.Flags().StringVar(&videoPath, "video", "", "video file")
	cmd.MarkFlagRequired("video")
	return cmd
}
