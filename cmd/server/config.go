package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind             string
	port             int
	baseTime         time.Duration
	increment        time.Duration
	startingGold     int
	baseIncome       int
	maxPlayers       int
	timerTick        time.Duration
	broadcastBacklog int
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.maxPlayers < 2 {
		return fmt.Errorf("max-players must be at least 2: %d", c.maxPlayers)
	}
	if c.timerTick <= 0 {
		return fmt.Errorf("timer-tick must be positive: %s", c.timerTick)
	}
	if c.broadcastBacklog < 1 {
		return fmt.Errorf("broadcast-backlog must be at least 1: %d", c.broadcastBacklog)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PALMIETOPIA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "palmietopia-server",
		Short:         "Authoritative server for a turn-based hex-grid conquest game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: PALMIETOPIA_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 3001, "port to listen on (env: PALMIETOPIA_PORT)")
	fs.DurationVar(&cfg.baseTime, "base-time", 120*time.Second, "starting time bank per player (env: PALMIETOPIA_BASE_TIME)")
	fs.DurationVar(&cfg.increment, "increment", 45*time.Second, "time added on each turn end (env: PALMIETOPIA_INCREMENT)")
	fs.IntVar(&cfg.startingGold, "starting-gold", 50, "gold each player starts with (env: PALMIETOPIA_STARTING_GOLD)")
	fs.IntVar(&cfg.baseIncome, "base-income", 20, "gold granted on each turn end (env: PALMIETOPIA_BASE_INCOME)")
	fs.IntVar(&cfg.maxPlayers, "max-players", 5, "maximum players per lobby (env: PALMIETOPIA_MAX_PLAYERS)")
	fs.DurationVar(&cfg.timerTick, "timer-tick", time.Second, "session timer tick interval (env: PALMIETOPIA_TIMER_TICK)")
	fs.IntVar(&cfg.broadcastBacklog, "broadcast-backlog", 100, "buffered messages per subscriber (env: PALMIETOPIA_BROADCAST_BACKLOG)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("palmietopia-server v{{.Version}}\n")

	return cmd
}
