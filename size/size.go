// Package size implements a named-size helper: a one-liner built on
// dispatch that parses a single implied numeric field as a base-10
// unsigned integer.
package size

import (
	"strconv"

	"github.com/globbie/gsl-go/dispatch"
	gslerr "github.com/globbie/gsl-go/error"
	"github.com/globbie/gsl-go/spec"
)

// ParseSize parses data as an unenclosed root document consisting of a
// single implied numeric run and writes the result into *slot. It
// returns error.Format if the value doesn't start with a digit or has
// trailing non-digit bytes, and error.Limit on overflow.
func ParseSize(slot *uint64, data []byte) (consumed int, err *gslerr.Error) {
	t := spec.Table{
		{
			Flavour: spec.GetRecord,
			Role:    spec.RoleImplied,
			Action: spec.RunAction{
				Obj: slot,
				Run: func(obj any, val []byte) error {
					if len(val) == 0 || val[0] < '0' || val[0] > '9' {
						return gslerr.New(gslerr.Format, 0)
					}
					n, perr := strconv.ParseUint(string(val), 10, 64)
					if perr != nil {
						if numErr, ok := perr.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
							return gslerr.New(gslerr.Limit, 0)
						}
						return gslerr.New(gslerr.Format, 0)
					}
					*(obj.(*uint64)) = n
					return nil
				},
			},
		},
	}
	return dispatch.ParseTask(data, t)
}
