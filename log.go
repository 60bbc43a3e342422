package qadom

import "github.com/sirupsen/logrus"

// Logger is the structured logger used by the CLI and the metrics sidecar
// loader. Core parsing and DOM code never logs: a fatal-error callback
// (errors.go) is the only way the library surfaces trouble from inside a
// parse, so a caller embedding qadom in a latency-sensitive path never pays
// for a logging call it didn't ask for.
var Logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the package-wide logger, e.g. to inject a
// request-scoped logrus.Entry carrying trace fields.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	Logger = l
}
