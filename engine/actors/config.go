package actors

import (
	"os"
	"time"

	"factionengine/engine/library"
	"github.com/spf13/viper"
)

// Success signal names the wallet plugin is known to dispatch. Either one completes a handshake.
const (
	SignalWalletConnected      = "xrpl-wallet-connected"
	SignalWalletConnectSuccess = "wallet-connect-success"
)

// FallbackWalletID stands in for the wallet address when a success signal arrives without one.
const FallbackWalletID library.Account = "rHb9CJAWyB4rj91VRWn96Dzk4115143"

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	config.SetDefault("rootDir", homeDir+"/factionengine/")
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + "config.yaml")
	err = config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	SetDefaults(config)
	// Create our working directory and config file if not exist
	initRootDir(config)
	touch(config.GetString("rootDir") + "config.yaml")
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
}

// SetDefaults registers every key the engine reads. It never touches the disk, so tests can use it directly.
func SetDefaults(config *viper.Viper) {
	config.SetDefault("logLevel", 4)

	// wallet plugin
	config.SetDefault("pluginPath", "/core-plugin-v2.5.yaml")
	config.SetDefault("pluginFallbackPath", "./core-plugin-v2.5.yaml")
	config.SetDefault("pluginLoadDelay", 100*time.Millisecond)
	config.SetDefault("connectTimeout", 300000*time.Millisecond)
	config.SetDefault("successSignals", []string{SignalWalletConnected, SignalWalletConnectSuccess})
	config.SetDefault("fallbackWalletID", FallbackWalletID)
	config.SetDefault("relays", []string{"wss://nos.lol"})

	// session economics
	config.SetDefault("startingBalance", 150.0)
	config.SetDefault("startingInvites", 2)
	config.SetDefault("creationFee", 25.0)
	config.SetDefault("invitesRequired", 5)
	config.SetDefault("unlockPenalty", 0.02)
	config.SetDefault("newFactionRank", 101)

	// presentation
	config.SetDefault("appDomain", "https://factionprotocol.io")
	config.SetDefault("cycleDays", 7)
	//0 seeds growth rates from the wall clock
	config.SetDefault("growthSeed", int64(0))
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.Mkdir(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 0)
		}
	}
}

func touch(path string) {
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		library.LogCLI(err, 1)
		return
	}
	f.Close()
}

var conf *viper.Viper

func MakeOrGetConfig() *viper.Viper {
	if conf == nil {
		conf = viper.New()
		SetDefaults(conf)
	}
	return conf
}

func SetConfig(config *viper.Viper) {
	conf = config
}
