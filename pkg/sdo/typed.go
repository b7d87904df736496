package sdo

import (
	"context"
	"fmt"

	"github.com/synapticon/somanet-ethclient/pkg/valuecodec"
)

// UploadValue reads (index, subIndex) from the device, updates the
// store, and returns the decoded value.
func (c *Client) UploadValue(ctx context.Context, index uint16, subIndex uint8) (valuecodec.Value, error) {
	if err := c.Upload(ctx, index, subIndex); err != nil {
		return valuecodec.Value{}, err
	}
	p, err := c.store.Find(index, subIndex)
	if err != nil {
		return valuecodec.Value{}, err
	}
	v, err := p.Value()
	if err != nil {
		return valuecodec.Value{}, fmt.Errorf("sdo: decode 0x%04X:0x%02X: %w", index, subIndex, err)
	}
	return v, nil
}

// SetAndDownload encodes val into the stored parameter and writes it
// through to the device in one step.
func (c *Client) SetAndDownload(ctx context.Context, index uint16, subIndex uint8, val valuecodec.Value) error {
	p, err := c.store.Find(index, subIndex)
	if err != nil {
		return err
	}
	if err := p.SetValue(val); err != nil {
		return fmt.Errorf("sdo: encode 0x%04X:0x%02X: %w", index, subIndex, err)
	}
	return c.Download(ctx, index, subIndex)
}

// UploadUint is a convenience wrapper returning the value as uint64.
func (c *Client) UploadUint(ctx context.Context, index uint16, subIndex uint8) (uint64, error) {
	v, err := c.UploadValue(ctx, index, subIndex)
	if err != nil {
		return 0, err
	}
	uv, ok := v.Uint()
	if !ok {
		return 0, fmt.Errorf("sdo: 0x%04X:0x%02X: %w", index, subIndex, valuecodec.ErrTypeMismatch)
	}
	return uv, nil
}

// UploadString is a convenience wrapper returning the value as a string.
func (c *Client) UploadString(ctx context.Context, index uint16, subIndex uint8) (string, error) {
	v, err := c.UploadValue(ctx, index, subIndex)
	if err != nil {
		return "", err
	}
	sv, ok := v.String()
	if !ok {
		return "", fmt.Errorf("sdo: 0x%04X:0x%02X: %w", index, subIndex, valuecodec.ErrTypeMismatch)
	}
	return sv, nil
}
