// Package config loads the two configuration inputs a session needs:
// the PDO mapping (JSON) and the session-level connection settings
// (YAML).
package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/synapticon/somanet-ethclient/pkg/pdo"
)

// PDOMapping is the JSON schema for process-data mapping input: two
// maps from a PDO index (hex string, e.g. "0x1600") to an ordered list
// of 32-bit mapping words (hex strings, e.g. "0x607A0020").
type PDOMapping struct {
	Rx map[string][]string `json:"rx"`
	Tx map[string][]string `json:"tx"`
}

// ParsePDOMapping unmarshals raw JSON into a PDOMapping.
func ParsePDOMapping(raw []byte) (PDOMapping, error) {
	var m PDOMapping
	if err := json.Unmarshal(raw, &m); err != nil {
		return PDOMapping{}, fmt.Errorf("config: parse pdo mapping: %w", err)
	}
	return m, nil
}

// ToEngineMapping flattens the JSON schema's per-PDO-index word lists
// into the single pdo.Mapping an Engine exchanges. PDO indices are taken
// in ascending order of their key strings, which is numeric order when
// every key is written the same way (same "0x" prefix, digit count and
// letter case, e.g. "0x1600", "0x1601"); each index's words keep their
// listed order.
func (m PDOMapping) ToEngineMapping() (pdo.Mapping, error) {
	rx, err := flattenWords(m.Rx)
	if err != nil {
		return pdo.Mapping{}, fmt.Errorf("config: rx mapping: %w", err)
	}
	tx, err := flattenWords(m.Tx)
	if err != nil {
		return pdo.Mapping{}, fmt.Errorf("config: tx mapping: %w", err)
	}
	return pdo.Mapping{Rx: rx, Tx: tx}, nil
}

func flattenWords(byPDO map[string][]string) ([]pdo.Entry, error) {
	pdoIndexes := make([]string, 0, len(byPDO))
	for pdoIndex := range byPDO {
		pdoIndexes = append(pdoIndexes, pdoIndex)
	}
	sort.Strings(pdoIndexes)

	var entries []pdo.Entry
	for _, pdoIndex := range pdoIndexes {
		for _, w := range byPDO[pdoIndex] {
			word, err := parseHexWord(w)
			if err != nil {
				return nil, fmt.Errorf("pdo %s: %w", pdoIndex, err)
			}
			entries = append(entries, pdo.DecodeMappingWord(word))
		}
	}
	return entries, nil
}

// parseHexWord accepts the "0x1600"-style hex literal spec.md section 6
// shows for mapping words, base 0 letting strconv infer the radix from
// the "0x" prefix.
func parseHexWord(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed mapping word %q: %w", s, err)
	}
	return uint32(v), nil
}
