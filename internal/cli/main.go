package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forPelevin/shortreel/internal/config"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "shortreel <scenes.json>",
		Short:        "Assemble narrated scene stills into one vertical MP4",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("out", "", "Output file (default out/<manifest>-<timestamp>-<run>.mp4)")
	root.Flags().Bool("subtitles", true, "Burn narration subtitles into each scene")
	root.Flags().String("config", "", "Config file (default ./shortreel.toml, then ~/.config/shortreel/config.toml)")
	root.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	root.Flags().String("log-format", "", "Log format: console or json")

	// Hidden: output directory used when --out is not given.
	root.Flags().String("out-dir", "out", "Output directory")
	_ = root.Flags().MarkHidden("out-dir")

	root.AddCommand(&cobra.Command{
		Use:   "sample-config",
		Short: "Print an annotated configuration file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), config.Sample())
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
