package util

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lintang-b-s/trafficrouter/pkg"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is reports a match against the error code, so errors.Is(err, ErrNetworkLoad) holds for wrapped load failures.
func (e *Error) Is(target error) bool {
	return e.code != nil && e.code == target
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

var (
	ErrInternalServerError = errors.New("internal Server Error")
	ErrNotFound            = errors.New("your requested Item is not found")
	ErrBadParamInput       = errors.New("given Param is not valid")

	ErrNetworkLoad         = errors.New("network description is malformed or unreadable")
	ErrInvalidEndpoint     = errors.New("endpoint is not a routable segment")
	ErrSimulatorConnection = errors.New("simulator connection failed")
	ErrSimulatorCommand    = errors.New("simulator rejected command")
)

var MessageInternalServerError string = "internal server error"

func DegreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func StringToFloat64(str string) (float64, error) {
	val, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, err
	}
	return val, nil
}

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}


// IsInternalSegment. intersection-internal segment ids start with ':'
func IsInternalSegment(id string) bool {
	return strings.HasPrefix(id, pkg.INTERNAL_SEGMENT_MARKER)
}
