package cmd

import (
	"github.com/Zachkp/syscry/internal/effects"
	"github.com/Zachkp/syscry/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var bannerAttrs = map[string]*string{
	"sys-typewriter": new(string),
	"period":         new(string),
	"writing":        new(string),
	"cursor":         new(string),
}

var bannerHover string

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Show the elapsed and countdown clocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := tea.NewProgram(tui.NewClockModel(effects.Since, effects.Until)).Run()
		return err
	},
}

var bannerCmd = &cobra.Command{
	Use:   "banner [initial text]",
	Short: "Play the logo reveal and type out lines",
	Long: `Plays the logo reveal, then types the initial text followed by each of
the --texts strings, the way a sys-typewriter element does on the site.
Press h to toggle the hover effects.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bannerConfig(args)
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(tui.NewBannerModel(cfg, bannerHover, nil)).Run()
		return err
	},
}

// bannerConfig reads the typewriter flags like element attributes. Without
// an initial text typing starts with the first of --texts.
func bannerConfig(args []string) (effects.TypewriterConfig, error) {
	attrs := make(map[string]string, len(bannerAttrs))
	for name, v := range bannerAttrs {
		attrs[name] = *v
	}
	initial := ""
	if len(args) > 0 {
		initial = args[0]
	}
	cfg, err := effects.ParseTypewriter(attrs, initial)
	if err != nil {
		return cfg, err
	}
	if initial == "" {
		cfg.Strings = cfg.Strings[1:]
	}
	return cfg, nil
}

func init() {
	f := bannerCmd.Flags()
	f.StringVar(bannerAttrs["sys-typewriter"], "texts", "systems that cry | code, loops, noise", "strings to type, separated by |")
	f.StringVar(bannerAttrs["period"], "period", "", "pause between strings in milliseconds")
	f.StringVar(bannerAttrs["writing"], "writing", "", "per-character typing time in milliseconds")
	f.StringVar(bannerAttrs["cursor"], "cursor", "", "cursor shown while typing")
	f.StringVar(&bannerHover, "hover", "hover to see more", "text typed in while hovering")

	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(bannerCmd)
}
