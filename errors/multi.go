package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all errors. Nil values are skipped. Appending a
// collection flattens it. Append returns nil if no error is given.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// AppendField is a shortcut function to club together error(s) with a given
// field error.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

// multiErr is a collection of errors that are reported together. It is
// never empty.
type multiErr []error

// unpacker is implemented by errors that are a collection of other errors.
type unpacker interface {
	Unpack() []error
}

var _ unpacker = multiErr(nil)

func (m multiErr) Unpack() []error {
	return m
}

func (m multiErr) Error() string {
	if len(m) == 1 {
		return m[0].Error()
	}
	points := make([]string, len(m))
	for i, e := range m {
		points[i] = fmt.Sprintf("* %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first error, consistent with the fail
// fast approach.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}
