package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/naifuru/naifuru/internal/ir"
)

// Units flattens cfg into processable units in config order. Paths are
// resolved against the config directory. Data is left nil.
func (c *Config) Units() []ir.ProcessableUnit {
	var units []ir.ProcessableUnit
	for _, conv := range c.Conversions {
		for gi, group := range conv.Groups {
			for fi, f := range group.Files {
				units = append(units, ir.ProcessableUnit{
					Conversion: conv.Name,
					From:       conv.From,
					To:         conv.To,
					GroupIndex: gi,
					FileIndex:  fi,
					AccAxis:    f.AccAxis,
					Path:       c.Resolve(f.Path),
				})
			}
		}
	}
	return units
}

// LoadPayload reads the unit's file once, as lines or bytes depending on
// its source format, and stores the result in u.Data.
func LoadPayload(u *ir.ProcessableUnit) error {
	b, err := os.ReadFile(u.Path)
	if err != nil {
		return fmt.Errorf("load %s: %w", u.Path, err)
	}

	if u.From.PayloadKind() == ir.PayloadBinary {
		u.Data = ir.BinaryPayload(b)
		return nil
	}

	lines, err := splitLines(b)
	if err != nil {
		return fmt.Errorf("load %s: %w", u.Path, err)
	}
	u.Data = ir.TextPayload(lines)
	return nil
}

func splitLines(b []byte) ([]string, error) {
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
