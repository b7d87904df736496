package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var loadValues bool

var paramsLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Fetch the device's full parameter descriptor list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		if err := sess.LoadParameters(ctx, loadValues); err != nil {
			return err
		}
		for _, p := range sess.Store().All() {
			fmt.Printf("%s %-24s %s\n", p.Key, p.DataType, p.Name)
		}
		return nil
	},
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Work with the device's object dictionary parameter list",
}

func init() {
	paramsLoadCmd.Flags().BoolVar(&loadValues, "values", false, "also store each entry's reported value")
	paramsCmd.AddCommand(paramsLoadCmd)
	rootCmd.AddCommand(paramsCmd)
}
