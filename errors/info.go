package errors

import "fmt"

const (
	// SuccessCode declares a response use 0 to signal that the
	// processing was successful and no error is returned.
	SuccessCode = 0

	// All unclassified errors that do not provide a code are clubbed
	// under an internal error code and a generic message instead of
	// detailed error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the public error information as consumed by a client.
// Returned code and log message should be used as a response.
// Any error that does not provide Code information is categorized as error
// with code 1.
// When not running in a debug mode all messages of errors that do not provide
// Code information are replaced with generic "internal error". Errors
// without a Code information as considered internal.
func Info(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}

	// Only non-internal errors information can be exposed. Any error that
	// does not explicitly expose its state by providing an error code must
	// be silenced.
	if code := errCode(err); code != internalCode {
		return code, err.Error()
	}

	if debug {
		return internalCode, fmt.Sprintf("%+v", err)
	}

	// For internal errors hide the original error message and return
	// generic data.
	return internalCode, internalLog
}

type coder interface {
	Code() uint32
}

// errCode returns the code of the first error in the wrap chain that has
// one, or internalCode.
func errCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	code := internalCode
	walk(err, func(cur error) bool {
		if c, ok := cur.(coder); ok {
			code = c.Code()
			return true
		}
		return false
	})
	return code
}
