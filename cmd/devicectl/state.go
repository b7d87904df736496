package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	device "github.com/synapticon/somanet-ethclient"
)

var stateNames = map[uint8]string{
	device.ECStateInit:   "INIT",
	device.ECStatePreop:  "PREOP",
	device.ECStateBoot:   "BOOT",
	device.ECStateSafeop: "SAFEOP",
	device.ECStateOp:     "OP",
}

var stateGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Read the device's current EtherCAT state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		s, err := sess.GetState(ctx)
		if err != nil {
			return err
		}
		fmt.Println(describeState(s))
		return nil
	},
}

var stateSetCmd = &cobra.Command{
	Use:   "set <state>",
	Short: "Request an EtherCAT state transition (INIT, PREOP, BOOT, SAFEOP, OP, or a numeric value)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseECState(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		return sess.SetState(ctx, target)
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Read or request the device's EtherCAT state",
}

func init() {
	stateCmd.AddCommand(stateGetCmd, stateSetCmd)
	rootCmd.AddCommand(stateCmd)
}

func describeState(s uint8) string {
	if name, ok := stateNames[s]; ok {
		return fmt.Sprintf("%s (0x%02X)", name, s)
	}
	return fmt.Sprintf("0x%02X", s)
}

func parseECState(raw string) (uint8, error) {
	for state, name := range stateNames {
		if name == raw {
			return state, nil
		}
	}
	v, err := strconv.ParseUint(raw, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("unrecognized state %q", raw)
	}
	return uint8(v), nil
}
