// argparser.go - declarative flag parser: a static array of {long name,
// short name, converter, used} records. Leading dashes are stripped,
// long-name `=value` suffixes are split off, and boolean flags default to
// "true" when no value is given.

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseableArgument describes one recognized flag or positional argument.
// longName ending in "=" marks a value-taking flag; an empty longName marks
// a positional argument.
type parseableArgument struct {
	longName  string
	shortName string
	convert   func(string) error
	used      bool
}

// parsedArgs is the destination record the converters populate.
type parsedArgs struct {
	InputFile           string
	DisableGUI          bool
	SingleStep          bool
	OverwriteMemSize    uint32
	HasOverwriteMemSize bool
	OverwriteOpSize     uint8
	HasOverwriteOpSize  bool
	CacheBits           uint8
	LTRunGUI            bool
}

// parseArguments matches the recognized flag table against argv (excluding
// the program name). Unknown tokens are fatal.
func parseArguments(argv []string) (*parsedArgs, error) {
	result := &parsedArgs{CacheBits: defaultCacheBits}

	args := []*parseableArgument{
		{longName: "disable-gui", shortName: "ng", convert: func(v string) error {
			result.DisableGUI = v == "true"
			return nil
		}},
		{longName: "singlestep", shortName: "s", convert: func(v string) error {
			result.SingleStep = v == "true"
			return nil
		}},
		{longName: "overwrite-memory-size=", shortName: "m=", convert: func(v string) error {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return fmt.Errorf("%w: invalid --overwrite-memory-size value %q", errConfiguration, v)
			}
			if uint32(n) < minMemorySize {
				return fmt.Errorf("%w: --overwrite-memory-size %d out of range", errConfiguration, n)
			}
			result.OverwriteMemSize = uint32(n)
			result.HasOverwriteMemSize = true
			return nil
		}},
		{longName: "overwrite-operand-size=", shortName: "o=", convert: func(v string) error {
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || uint8(n) < minOperandSize || uint8(n) > maxOperandSize {
				return fmt.Errorf("%w: --overwrite-operand-size %q out of range [%d,%d]", errConfiguration, v, minOperandSize, maxOperandSize)
			}
			result.OverwriteOpSize = uint8(n)
			result.HasOverwriteOpSize = true
			return nil
		}},
		{longName: "cache-bits=", shortName: "c=", convert: func(v string) error {
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || uint8(n) < minCacheBits || uint8(n) > maxCacheBits {
				return fmt.Errorf("%w: --cache-bits %q out of range [%d,%d]", errConfiguration, v, minCacheBits, maxCacheBits)
			}
			result.CacheBits = uint8(n)
			return nil
		}},
		{longName: "lt-run-gui", shortName: "ltrg", convert: func(v string) error {
			result.LTRunGUI = v == "true"
			return nil
		}},
		{longName: "", shortName: "", convert: func(v string) error {
			result.InputFile = v
			return nil
		}},
	}

	for _, raw := range argv {
		token := strings.TrimLeft(raw, "-")
		matched := false

		for _, a := range args {
			if a.used && a.longName != "" {
				continue
			}
			if a.longName == "" {
				// Positional: only matches tokens that didn't match any
				// named flag and aren't themselves flag-shaped.
				continue
			}

			longBase := strings.TrimSuffix(a.longName, "=")
			shortBase := strings.TrimSuffix(a.shortName, "=")
			takesValue := strings.HasSuffix(a.longName, "=")

			if strings.HasPrefix(token, longBase+"=") || strings.HasPrefix(token, shortBase+"=") {
				idx := strings.Index(token, "=")
				if err := a.convert(token[idx+1:]); err != nil {
					return nil, err
				}
				a.used = true
				matched = true
				break
			}
			if !takesValue && (token == longBase || token == shortBase) {
				if err := a.convert("true"); err != nil {
					return nil, err
				}
				a.used = true
				matched = true
				break
			}
		}

		if !matched {
			if strings.HasPrefix(raw, "-") {
				return nil, fmt.Errorf("%w: unknown argument %q", errConfiguration, raw)
			}
			for _, a := range args {
				if a.longName == "" && !a.used {
					if err := a.convert(raw); err != nil {
						return nil, err
					}
					a.used = true
					matched = true
					break
				}
			}
		}

		if !matched {
			return nil, fmt.Errorf("%w: unknown argument %q", errConfiguration, raw)
		}
	}

	if result.InputFile == "" && !result.LTRunGUI {
		return nil, fmt.Errorf("%w: missing program file argument", errConfiguration)
	}
	if result.InputFile != "" && !strings.HasSuffix(result.InputFile, programExtension) {
		return nil, fmt.Errorf("%w: input file %q must end with %q", errConfiguration, result.InputFile, programExtension)
	}

	return result, nil
}
