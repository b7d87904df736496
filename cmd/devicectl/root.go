package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/synapticon/somanet-ethclient/pkg/transport"
	device "github.com/synapticon/somanet-ethclient"
)

var (
	flagHost    string
	flagPort    int
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "devicectl",
	Short: "Command line client for a SOMANET Ethernet device",
	Long: `devicectl drives a single device.Session against a SOMANET device's
TCP object-dictionary protocol: upload/download SDO entries, read or
request EtherCAT state transitions, and move files.

Connection settings may be given as flags, environment variables
(DEVICECTL_HOST, DEVICECTL_PORT, DEVICECTL_TIMEOUT), or a config file
passed with --config.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "device host or IP address")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 0, "device TCP port")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 2*time.Second, "per-exchange read timeout")
	rootCmd.PersistentFlags().String("config", "", "YAML config.SessionConfig file (overridden by flags)")

	viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.SetEnvPrefix("DEVICECTL")
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openSession reads the bound host/port/timeout and connects a Session,
// honoring --config first and letting flags/env override it.
func openSession(ctx context.Context) (*device.Session, error) {
	if path := viper.GetString("config"); path != "" {
		if err := mergeConfigFile(path); err != nil {
			return nil, err
		}
	}

	host := viper.GetString("host")
	port := viper.GetInt("port")
	if host == "" || port == 0 {
		return nil, fmt.Errorf("devicectl: --host and --port (or a --config file) are required")
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	sess := device.NewSession(addr, transport.WithReadTimeout(viper.GetDuration("timeout")))
	if err := sess.Connect(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}
