package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/synapticon/somanet-ethclient/pkg/od"
	"github.com/synapticon/somanet-ethclient/pkg/valuecodec"
)

func parseIndex(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	return uint16(v), nil
}

func parseSubIndex(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid subindex %q: %w", s, err)
	}
	return uint8(v), nil
}

var sdoDataType string

var uploadCmd = &cobra.Command{
	Use:   "upload <index> <subindex>",
	Short: "Read an object dictionary entry from the device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		subIndex, err := parseSubIndex(args[1])
		if err != nil {
			return err
		}

		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		if _, err := sess.FindParameter(index, subIndex); err != nil {
			dt, err := dataTypeFromFlag(sdoDataType)
			if err != nil {
				return err
			}
			sess.Store().Put(&od.Parameter{Key: od.Key{Index: index, SubIndex: subIndex}, DataType: dt})
		}

		v, err := sess.UploadValue(ctx, index, subIndex)
		if err != nil {
			return err
		}
		fmt.Println(formatValue(v))
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <index> <subindex> <value>",
	Short: "Write an object dictionary entry on the device",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		subIndex, err := parseSubIndex(args[1])
		if err != nil {
			return err
		}
		dt, err := dataTypeFromFlag(sdoDataType)
		if err != nil {
			return err
		}
		val, err := parseValueFlag(args[2], dt)
		if err != nil {
			return err
		}

		ctx := context.Background()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Disconnect()

		if _, err := sess.FindParameter(index, subIndex); err != nil {
			sess.Store().Put(&od.Parameter{Key: od.Key{Index: index, SubIndex: subIndex}, DataType: dt})
		}
		return sess.SetAndDownload(ctx, index, subIndex, val)
	},
}

func init() {
	uploadCmd.Flags().StringVar(&sdoDataType, "type", "UNSIGNED32", "ETG.1020 data type tag, used only for a not-yet-known entry")
	downloadCmd.Flags().StringVar(&sdoDataType, "type", "UNSIGNED32", "ETG.1020 data type tag, used only for a not-yet-known entry")
	rootCmd.AddCommand(uploadCmd, downloadCmd)
}

func dataTypeFromFlag(name string) (valuecodec.DataType, error) {
	dt, ok := valuecodec.ParseDataType(name)
	if !ok {
		return 0, fmt.Errorf("unknown data type %q", name)
	}
	return dt, nil
}

func formatValue(v valuecodec.Value) string {
	switch v.Kind {
	case valuecodec.KindUint:
		u, _ := v.Uint()
		return strconv.FormatUint(u, 10)
	case valuecodec.KindInt:
		i, _ := v.Int()
		return strconv.FormatInt(i, 10)
	case valuecodec.KindFloat32:
		f, _ := v.Float32()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case valuecodec.KindFloat64:
		f, _ := v.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case valuecodec.KindBool:
		b, _ := v.Bool()
		return strconv.FormatBool(b)
	case valuecodec.KindString:
		s, _ := v.String()
		return s
	default:
		b, _ := v.Bytes()
		return fmt.Sprintf("% x", b)
	}
}

func parseValueFlag(raw string, dt valuecodec.DataType) (valuecodec.Value, error) {
	switch {
	case dt == valuecodec.BOOLEAN:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return valuecodec.Value{}, err
		}
		return valuecodec.BoolValue(b), nil
	case dt == valuecodec.REAL32:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return valuecodec.Value{}, err
		}
		return valuecodec.Float32Value(float32(f)), nil
	case dt == valuecodec.REAL64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return valuecodec.Value{}, err
		}
		return valuecodec.Float64Value(f), nil
	case dt == valuecodec.VISIBLE_STRING || dt == valuecodec.OCTET_STRING || dt == valuecodec.UNICODE_STRING:
		return valuecodec.StringValue(raw), nil
	default:
		if isSignedType(dt) {
			i, err := strconv.ParseInt(raw, 0, 64)
			if err != nil {
				return valuecodec.Value{}, err
			}
			return valuecodec.IntValue(i), nil
		}
		u, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			return valuecodec.Value{}, err
		}
		return valuecodec.UintValue(u), nil
	}
}

func isSignedType(dt valuecodec.DataType) bool {
	switch dt {
	case valuecodec.INTEGER8, valuecodec.INTEGER16, valuecodec.INTEGER24,
		valuecodec.INTEGER32, valuecodec.INTEGER40, valuecodec.INTEGER48,
		valuecodec.INTEGER56, valuecodec.INTEGER64:
		return true
	default:
		return false
	}
}
