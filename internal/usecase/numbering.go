package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	YearFormatShort = "YY"
	YearFormatLong  = "YYYY"
)

var ErrInvalidNumberingConfig = errors.New("invalid numbering config")

// NumberingConfig shapes invoice numbers as {PREFIX}{SEP}{YEAR}{SEP}{SEQ}.
type NumberingConfig struct {
	Prefix         string `json:"prefix" mapstructure:"prefix"`
	YearFormat     string `json:"year_format" mapstructure:"year_format"`
	SequenceLength int    `json:"sequence_length" mapstructure:"sequence_length"`
	Separator      string `json:"separator" mapstructure:"separator"`
}

func DefaultNumberingConfig() NumberingConfig {
	return NumberingConfig{Prefix: "INV", YearFormat: YearFormatLong, SequenceLength: 4, Separator: "-"}
}

func (c NumberingConfig) Validate() error {
	if c.YearFormat != YearFormatShort && c.YearFormat != YearFormatLong {
		return fmt.Errorf("%w: year format %q", ErrInvalidNumberingConfig, c.YearFormat)
	}
	if c.SequenceLength < 1 || c.SequenceLength > 10 {
		return fmt.Errorf("%w: sequence length %d", ErrInvalidNumberingConfig, c.SequenceLength)
	}
	return nil
}

func (c NumberingConfig) year(year int) string {
	if c.YearFormat == YearFormatShort {
		return fmt.Sprintf("%02d", year%100)
	}
	return fmt.Sprintf("%04d", year)
}

// Format renders the number for the seq-th invoice (1-based) of the given year.
func (c NumberingConfig) Format(year, seq int) string {
	return c.Prefix + c.Separator + c.year(year) + c.Separator + fmt.Sprintf("%0*d", c.SequenceLength, seq)
}

// Sequence extracts the year sequence from a number produced by Format for that year.
func (c NumberingConfig) Sequence(number string, year int) (int, bool) {
	head := c.Prefix + c.Separator + c.year(year) + c.Separator
	if !strings.HasPrefix(number, head) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(number, head))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ContractNumberer issues CON-{year}-{last 6 digits of a strictly increasing millisecond stamp}.
type ContractNumberer struct {
	mu    sync.Mutex
	last  int64
	clock func() time.Time
}

func NewContractNumberer(clock func() time.Time) *ContractNumberer {
	if clock == nil {
		clock = time.Now
	}
	return &ContractNumberer{clock: clock}
}

func (n *ContractNumberer) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.clock().UTC()
	stamp := now.UnixMilli()
	if stamp <= n.last {
		stamp = n.last + 1
	}
	n.last = stamp
	return fmt.Sprintf("CON-%d-%06d", now.Year(), stamp%1_000_000)
}
