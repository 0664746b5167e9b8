package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideclang/ideclang/internal/errors"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read --%s flag", name)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string, defaultValue bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return defaultValue, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read --%s flag", name)
	}
	return value, nil
}

// ParsePosition reads 1-based line and column arguments.
func ParsePosition(lineArg, colArg string) (int, int, error) {
	line, err := strconv.Atoi(strings.TrimSpace(lineArg))
	if err != nil || line < 1 {
		return 0, 0, errors.WithHint(errors.Newf("invalid line %q", lineArg), "lines are 1-based positive integers")
	}
	col, err := strconv.Atoi(strings.TrimSpace(colArg))
	if err != nil || col < 1 {
		return 0, 0, errors.WithHint(errors.Newf("invalid column %q", colArg), "columns are 1-based byte offsets within the line")
	}
	return line, col, nil
}
