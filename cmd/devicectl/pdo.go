package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synapticon/somanet-ethclient/pkg/config"
)

var pdoMappingPath string

var pdoExchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Perform one PDO_RXTX_FRAME round trip using a JSON mapping file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := pdoMappingPath
		if path == "" {
			return fmt.Errorf("devicectl: --mapping is required")
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		m, err := config.ParsePDOMapping(raw)
		if err != nil {
			return err
		}
		mapping, err := m.ToEngineMapping()
		if err != nil {
			return err
		}

		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		sess.ConfigurePDO(mapping)
		return sess.ExchangeProcessData(ctx)
	},
}

var pdoCmd = &cobra.Command{
	Use:   "pdo",
	Short: "Configure and exchange process data",
}

func init() {
	pdoExchangeCmd.Flags().StringVar(&pdoMappingPath, "mapping", "", "path to a config.PDOMapping JSON file")
	pdoCmd.AddCommand(pdoExchangeCmd)
	rootCmd.AddCommand(pdoCmd)
}
