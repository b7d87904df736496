package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fileLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List files on the device",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		names, err := sess.ListFiles(ctx, true)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var fileGetCmd = &cobra.Command{
	Use:   "get <name> <local-path>",
	Short: "Download a file from the device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		data, err := sess.ReadFile(ctx, args[0])
		if err != nil {
			return err
		}
		return os.WriteFile(args[1], data, 0o644)
	},
}

var filePutCmd = &cobra.Command{
	Use:   "put <local-path> <name>",
	Short: "Upload a file to the device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		return sess.WriteFile(ctx, args[1], data)
	},
}

var fileRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a file on the device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		return sess.RemoveFile(ctx, args[0])
	},
}

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "List, read, write, or remove files on the device",
}

func init() {
	fileCmd.AddCommand(fileLsCmd, fileGetCmd, filePutCmd, fileRmCmd)
	rootCmd.AddCommand(fileCmd)
}
