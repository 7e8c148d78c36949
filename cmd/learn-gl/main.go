package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xlab/closer"

	"learn-gl/internal/assets/shadersrc"
	"learn-gl/internal/config"
	"learn-gl/internal/demo"
)

type options struct {
	configPath string
	shaderDir  string
	strict     bool
	verbose    bool
	watch      bool
}

func main() {
	// closer runs bound cleanups on return from main and on SIGINT/SIGTERM
	defer closer.Close()

	if err := newRootCmd().Execute(); err != nil {
		closer.Fatalln(err)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "learn-gl",
		Short:         "Small OpenGL demos with a free-look camera",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	flags.StringVar(&opts.shaderDir, "shaders", "", "shader source directory (overrides config)")
	flags.BoolVar(&opts.strict, "strict", false, "exit when the shader program fails to build")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "reload shaders when their files change")

	for _, name := range demo.Names {
		if name == "model" {
			continue
		}
		root.AddCommand(sceneCmd(name, opts))
	}
	root.AddCommand(modelCmd(opts), configCmd(opts), shadersCmd(opts))
	return root
}

func sceneCmd(name string, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: "Run the " + name + " demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(name, sceneSources{}, opts)
		},
	}
}

func modelCmd(opts *options) *cobra.Command {
	var size float32
	cmd := &cobra.Command{
		Use:   "model <file.gltf|file.glb>",
		Short: "Load a glTF model and fly around it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("model", sceneSources{Model: args[0], ModelSize: size}, opts)
		},
	}
	cmd.Flags().Float32Var(&size, "size", 2, "edge length the model is scaled to fit")
	return cmd
}

func configCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func shadersCmd(opts *options) *cobra.Command {
	shaders := &cobra.Command{
		Use:   "shaders",
		Short: "Work with shader sources",
	}
	shaders.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the built-in shader programs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(shadersrc.Names(), "\n"))
		},
	})
	shaders.AddCommand(&cobra.Command{
		Use:   "export [program...]",
		Short: "Copy built-in shaders to the shader directory for editing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = shadersrc.Names()
			}
			loader := shadersrc.Loader{Dir: cfg.Assets.ShaderDir}
			for _, name := range args {
				if err := loader.Export(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", name, cfg.Assets.ShaderDir)
			}
			return nil
		},
	})
	return shaders
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.shaderDir != "" {
		cfg.Assets.ShaderDir = opts.shaderDir
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
