package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vmforge/vmforge/pkg/engine"
)

func newTemplatesCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage VM templates",
	}

	cmd.AddCommand(newTemplatesListCommand(version))
	cmd.AddCommand(newTemplatesShowCommand(version))
	cmd.AddCommand(newTemplatesRegisterCommand(version))
	cmd.AddCommand(newTemplatesRemoveCommand(version))

	return cmd
}

func newTemplatesListCommand(version string) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, version)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			return printResult(a.coordinator.ListTemplates(ctx, category))
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	return cmd
}

func newTemplatesShowCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a template specification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, version)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			spec, err := a.coordinator.GetTemplate(ctx, args[0])
			if err != nil {
				return err
			}
			meta, err := a.coordinator.GetTemplateMeta(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(map[string]any{
				"name":          args[0],
				"specification": spec,
				"meta":          meta,
			})
		},
	}

	return cmd
}

// templateFile is the YAML shape accepted by `templates register`.
type templateFile struct {
	Specification engine.Specification `yaml:"specification"`
	Meta          engine.TemplateMeta  `yaml:"meta"`
}

func newTemplatesRegisterCommand(version string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a template from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var tf templateFile
			if err := yaml.Unmarshal(data, &tf); err != nil {
				return err
			}

			a, err := newApp(ctx, version)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			ctx = a.telemetry.WithContext(ctx)
			if err := a.coordinator.RegisterTemplate(ctx, args[0], tf.Specification, tf.Meta); err != nil {
				return err
			}
			return printResult(map[string]any{"name": args[0], "registered": true})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "template YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTemplatesRemoveCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, version)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			if err := a.coordinator.RemoveTemplate(ctx, args[0]); err != nil {
				return err
			}
			return printResult(map[string]any{"name": args[0], "removed": true})
		},
	}

	return cmd
}
