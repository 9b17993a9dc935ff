package testsuiteanalyzer

import (
	"fmt"
	"strconv"
	"strings"
)

// noneValue turns a threshold or cap off on the command line.
const noneValue = "none"

// optionalFloat64 is a float flag that also accepts "none" for nil.
type optionalFloat64 struct {
	value **float64
}

func (o *optionalFloat64) String() string {
	if o == nil || o.value == nil || *o.value == nil {
		return noneValue
	}
	return strconv.FormatFloat(**o.value, 'g', -1, 64)
}

func (o *optionalFloat64) Set(value string) error {
	if strings.EqualFold(value, noneValue) {
		*o.value = nil
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%q is neither a number nor %q", value, noneValue)
	}
	*o.value = &f
	return nil
}

func (o *optionalFloat64) Type() string {
	return "float|none"
}

// optionalInt is an int flag that also accepts "none" for nil.
type optionalInt struct {
	value **int
}

func (o *optionalInt) String() string {
	if o == nil || o.value == nil || *o.value == nil {
		return noneValue
	}
	return strconv.Itoa(**o.value)
}

func (o *optionalInt) Set(value string) error {
	if strings.EqualFold(value, noneValue) {
		*o.value = nil
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%q is neither an integer nor %q", value, noneValue)
	}
	*o.value = &i
	return nil
}

func (o *optionalInt) Type() string {
	return "int|none"
}
