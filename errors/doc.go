/*
Package errors implements custom error interfaces for escrowd.

The idea is to reuse as many errors from this package as possible and define custom package
errors when absolutely necessary. It is best to define a new error here if you feel it's going to
be somewhat package-agnostic.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New, or Wrap(Errxxx, "...").
Code stands for a public error code, which allows to distinguish types of errors
on the client side and act accordingly.

There is also support for stacktraces. Please ensure you create the custom error using
ErrXyz.New("...") or errors.Wrap(err, "...") at the point of creation to ensure we attach
a stacktrace. If you wrap multiple times, we only record the first wrap with the stacktrace.
(And don't do this as a global `var ErrFoo = errors.ErrInput.New("foo")` or you will get a
useless stacktrace).
*/

package errors
