package plfmip

import (
	"fmt"
	"strconv"
)

// Repeatable flag values for the experiment binary, e.g.
// -K 10 -K 100 -K 1000 or -method Logarithmic -method ZigZag.

type ArrayStringFlags []string

func (i *ArrayStringFlags) String() string {
	return fmt.Sprintf("%v", *i)
}

func (i *ArrayStringFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

type ArrayIntFlags []int

func (i *ArrayIntFlags) String() string {
	return fmt.Sprintf("%v", *i)
}

func (i *ArrayIntFlags) Set(value string) error {
	val, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*i = append(*i, val)
	return nil
}
