package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/naifuru/naifuru/internal/config"
	"github.com/naifuru/naifuru/internal/ir"
	"github.com/naifuru/naifuru/internal/sac"
	"github.com/naifuru/naifuru/internal/testutil"
)

// materialize writes every fixture of s into dir and returns the config that
// describes them.
func materialize(s *Scenario, dir string) (*config.Config, error) {
	cfg := &config.Config{
		Dir:    dir,
		Global: config.Global{NameFormat: ir.NameYyyymmddHhmmssSnN},
	}

	for _, c := range s.Conversions {
		conv := config.Conversion{Name: c.Name, From: c.From, To: c.To}
		for _, g := range c.Groups {
			var group config.Group
			for _, f := range g.Files {
				if !f.Missing {
					content, err := f.content()
					if err != nil {
						return nil, fmt.Errorf("%s/%s: %w", c.Name, f.Path, err)
					}
					if err := os.WriteFile(filepath.Join(dir, f.Path), content, 0o644); err != nil {
						return nil, fmt.Errorf("write fixture: %w", err)
					}
				}
				group.Files = append(group.Files, config.File{Path: f.Path, AccAxis: f.AccAxis})
			}
			conv.Groups = append(conv.Groups, group)
		}
		cfg.Conversions = append(cfg.Conversions, conv)
	}
	return cfg, nil
}

func (f FileFixture) content() ([]byte, error) {
	switch {
	case f.Knet != nil:
		return []byte(f.Knet.render(f.AccAxis)), nil
	case f.Sac != nil:
		return f.Sac.render(), nil
	case f.Text != nil:
		return []byte(*f.Text), nil
	default:
		return nil, fmt.Errorf("fixture has no content")
	}
}

func (k *KnetFixture) render(axis ir.AccAxis) string {
	rec := testutil.NewKnetRecord(axis, k.Counts...)
	if k.Station != "" {
		rec.Station = k.Station
	}
	if k.RecordTime != "" {
		rec.RecordTime = k.RecordTime
	}
	if k.Numerator != 0 {
		rec.Numerator = k.Numerator
	}
	if k.Denominator != 0 {
		rec.Denominator = k.Denominator
	}

	lines := rec.Lines()
	nums := make([]int, 0, len(k.Replace))
	for n := range k.Replace {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	for _, n := range nums {
		for len(lines) < n {
			lines = append(lines, "")
		}
		lines[n-1] = k.Replace[n]
	}
	if k.Truncate > 0 && k.Truncate < len(lines) {
		lines = lines[:k.Truncate]
	}
	return strings.Join(lines, "\n") + "\n"
}

func (s *SacFixture) render() []byte {
	h := testutil.PalertHeader(len(s.NS))
	if s.Station != "" {
		h.Kstnm = s.Station
	}
	if s.Scale != nil {
		h.Scale = *s.Scale
	}
	if s.Idep != nil {
		h.Idep = *s.Idep
	}

	order := sac.Little
	if s.Order == "big" {
		order = sac.Big
	}
	b := sac.Encode(h, [][]float64{s.NS, s.EW, s.UD}, order)

	if s.Blank {
		clear(b[:sac.HeaderBytes])
	}
	if s.Words > 0 && s.Words*sac.WordSize < len(b) {
		b = b[:s.Words*sac.WordSize]
	}
	return b
}
