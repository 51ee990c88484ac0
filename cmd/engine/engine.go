package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"factionengine/engine/actors"
	"factionengine/engine/library"
	"factionengine/messaging/eventconductor"
	"factionengine/state/connection"
	"factionengine/state/factions"
	"factionengine/state/governance"
	"github.com/benbjohnson/clock"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

var (
	rootDirFlag = &cli.StringFlag{
		Name:  "root",
		Usage: "engine directory holding config.yaml and the wallet plugin",
	}
	pluginFlag = &cli.StringFlag{
		Name:  "plugin",
		Usage: "wallet plugin manifest (a leading / is relative to the engine directory)",
	}
	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "how long to wait for the wallet to approve a connection",
	}
	logLevelFlag = &cli.IntFlag{
		Name:  "log-level",
		Usage: "0 fatal only ... 5 trace",
		Value: -1,
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "seed for faction growth and the activity feed (0 = random)",
	}
)

var app = &cli.App{
	Name:  "engine",
	Usage: "faction staking demo engine",
	Flags: []cli.Flag{rootDirFlag, pluginFlag, timeoutFlag, logLevelFlag, seedFlag},
	Commands: []*cli.Command{
		{
			Name:   "run",
			Usage:  "start the engine with an interactive keyboard shell",
			Action: runEngine,
		},
		{
			Name:   "leaderboard",
			Usage:  "print the faction leaderboard",
			Action: printLeaderboard,
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "top", Value: 100, Usage: "how many factions to show"},
				&cli.StringFlag{Name: "search", Usage: "only factions whose name contains this"},
			},
		},
		{
			Name:   "proposals",
			Usage:  "print the governance proposals",
			Action: printProposals,
		},
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup builds the viper config: defaults, then config.yaml, then flags.
func setup(c *cli.Context) *viper.Viper {
	conf := viper.New()
	if c.IsSet(rootDirFlag.Name) {
		conf.Set("rootDir", c.String(rootDirFlag.Name))
	}
	actors.InitConfig(conf)
	if c.IsSet(pluginFlag.Name) {
		conf.Set("pluginPath", c.String(pluginFlag.Name))
	}
	if c.IsSet(timeoutFlag.Name) {
		conf.Set("connectTimeout", c.Duration(timeoutFlag.Name))
	}
	if c.IsSet(seedFlag.Name) {
		conf.Set("growthSeed", c.Int64(seedFlag.Name))
	}
	if level := c.Int(logLevelFlag.Name); level >= 0 {
		conf.Set("logLevel", level)
	}
	library.SetLogLevel(conf.GetInt("logLevel"))
	actors.SetConfig(conf)
	return conf
}

func runEngine(c *cli.Context) error {
	conf := setup(c)
	e, err := eventconductor.New(conf, clock.New())
	if err != nil {
		return err
	}
	e.Controller.Subscribe(printConnection)
	e.Start()

	interrupt := make(chan struct{})
	go cliListener(e, interrupt)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-interrupt:
	case <-sigs:
	}
	e.Close()
	actors.Shutdown()
	fmt.Println("bye")
	return nil
}

func printConnection(s connection.State) {
	switch s.Phase {
	case connection.Connecting:
		fmt.Println("Waiting for your wallet to approve the connection... (x to cancel)")
	case connection.Connected:
		fmt.Printf("Connected: %s\n", s.WalletID)
	case connection.Failed:
		fmt.Printf("Connection Failed\n%s\n(r to try again, x to close)\n", s.Message)
	case connection.Idle:
		fmt.Println("Not connected")
	}
}

func printLeaderboard(c *cli.Context) error {
	conf := setup(c)
	registry, err := factions.Load(conf.GetInt64("growthSeed"))
	if err != nil {
		return err
	}
	fs := registry.Top(c.Int("top"))
	if q := c.String("search"); q != "" {
		fs = registry.Search(q, c.Int("top"))
	}
	renderLeaderboard(os.Stdout, fs, registry.GlobalTotalLocked())
	return nil
}

func printProposals(c *cli.Context) error {
	setup(c)
	clk := clock.New()
	renderProposals(os.Stdout, governance.NewMind(clk).Proposals(), nil, clk.Now())
	return nil
}
