// Command rts runs the unit behavior and production simulation, either in a
// window (play) or headless (sim).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/milk9111/rts/config"
	"github.com/milk9111/rts/logger"
	"github.com/milk9111/rts/prefabs"
)

var (
	cfgFile  string
	settings config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "rts",
	Short: "Per-unit state machines and production queues on a tile map",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := config.New(cfgFile)
		bindFlags(v, cmd)
		s, err := config.Load(v)
		if err != nil {
			return err
		}
		settings = s
		logger.Init(s.LogLevel, s.LogFormat)
		prefabs.Dir = s.PrefabDir
		return nil
	},
	SilenceUsage: true,
}

func main() {
	addPersistentFlags()
	rootCmd.AddCommand(newPlayCmd(), newSimCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default ./rts.yaml)")
	f.String("log-level", config.DefaultLogLevel, "log level")
	f.String("log-format", "text", "log format: text or json")
	f.Int("wood", config.DefaultWood, "starting wood")
	f.Int("gold", config.DefaultGold, "starting gold")
	f.Int("food-max", config.DefaultFoodMax, "food capacity")
	f.Int("tps", config.DefaultTPS, "simulation ticks per second")
	f.String("prefab-dir", "prefabs", "directory whose prefabs override the embedded ones")
}

// bindFlags binds only flags set on the command line so the config file and
// environment still apply to the rest.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	keys := map[string]string{
		"log-level":  "log_level",
		"log-format": "log_format",
		"wood":       "wood",
		"gold":       "gold",
		"food-max":   "food_max",
		"tps":        "tps",
		"prefab-dir": "prefab_dir",
	}
	for flag, key := range keys {
		if fl := cmd.Flags().Lookup(flag); fl != nil && fl.Changed {
			_ = v.BindPFlag(key, fl)
		}
	}
}
