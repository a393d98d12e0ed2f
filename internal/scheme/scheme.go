// Package scheme models base16 color schemes and locates them in a schemes list.
package scheme

import (
	"fmt"
	"strconv"
	"strings"
)

// Bases lists the sixteen base16 slots in order.
var Bases = []string{"00", "01", "02", "03", "04", "05", "06", "07", "08", "09", "0A", "0B", "0C", "0D", "0E", "0F"}

// ColorScheme is a base16 scheme document.
type ColorScheme struct {
	Name   string `yaml:"scheme"`
	Author string `yaml:"author"`
	Base00 string `yaml:"base00"`
	Base01 string `yaml:"base01"`
	Base02 string `yaml:"base02"`
	Base03 string `yaml:"base03"`
	Base04 string `yaml:"base04"`
	Base05 string `yaml:"base05"`
	Base06 string `yaml:"base06"`
	Base07 string `yaml:"base07"`
	Base08 string `yaml:"base08"`
	Base09 string `yaml:"base09"`
	Base0A string `yaml:"base0A"`
	Base0B string `yaml:"base0B"`
	Base0C string `yaml:"base0C"`
	Base0D string `yaml:"base0D"`
	Base0E string `yaml:"base0E"`
	Base0F string `yaml:"base0F"`
}

// FileName returns the name of the scheme document inside its repository.
func FileName(name string) string {
	return name + ".yaml"
}

// FindRepository returns the repository URL of the list entry whose name is
// the longest prefix of scheme, so "gruvbox-dark-hard" resolves through "gruvbox".
func FindRepository(list map[string]string, scheme string) (string, error) {
	var (
		best    string
		bestURL string
		found   bool
	)
	for name, url := range list {
		if !strings.HasPrefix(scheme, name) {
			continue
		}
		if found && (len(name) < len(best) || (len(name) == len(best) && name > best)) {
			continue
		}
		best, bestURL, found = name, url, true
	}

	if !found {
		return "", fmt.Errorf("%w: %s", ErrSchemeNotFound, scheme)
	}
	return bestURL, nil
}

// Colors returns the base colors keyed by slot ("00" through "0F").
func (s ColorScheme) Colors() map[string]string {
	return map[string]string{
		"00": s.Base00,
		"01": s.Base01,
		"02": s.Base02,
		"03": s.Base03,
		"04": s.Base04,
		"05": s.Base05,
		"06": s.Base06,
		"07": s.Base07,
		"08": s.Base08,
		"09": s.Base09,
		"0A": s.Base0A,
		"0B": s.Base0B,
		"0C": s.Base0C,
		"0D": s.Base0D,
		"0E": s.Base0E,
		"0F": s.Base0F,
	}
}

// Validate checks every base color is a 6 digit hexadecimal value.
func (s ColorScheme) Validate() error {
	colors := s.Colors()
	for _, base := range Bases {
		if !isHexColor(normalizeHex(colors[base])) {
			return fmt.Errorf("base%s %q: %w", base, colors[base], ErrInvalidColor)
		}
	}
	return nil
}

// Vars returns the variables templates consume: the scheme name and author,
// and for every base the hex value and its red, green and blue channels as
// hex, 0-255 and 0-1 values.
func (s ColorScheme) Vars() map[string]any {
	vars := map[string]any{
		"scheme-name":   s.Name,
		"scheme-author": s.Author,
	}

	for base, color := range s.Colors() {
		color = normalizeHex(color)
		prefix := "base" + base
		vars[prefix+"-hex"] = color
		if !isHexColor(color) {
			continue
		}

		for i, channel := range []string{"r", "g", "b"} {
			hex := color[i*2 : i*2+2]
			value := channelValue(hex)
			vars[prefix+"-hex-"+channel] = hex
			vars[prefix+"-rgb-"+channel] = value
			vars[prefix+"-dec-"+channel] = float64(value) / 255
		}
	}

	return vars
}

func normalizeHex(color string) string {
	return strings.TrimPrefix(strings.TrimSpace(color), "#")
}

func isHexColor(color string) bool {
	if len(color) != 6 {
		return false
	}
	_, err := strconv.ParseUint(color, 16, 32)
	return err == nil
}

func channelValue(hex string) uint64 {
	v, _ := strconv.ParseUint(hex, 16, 8)
	return v
}
