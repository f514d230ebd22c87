package logger

import "github.com/sirupsen/logrus"

// App carries general request/startup logging.
// Payment carries the full payment trail: every callback classification,
// approval attempt and finalize outcome lands here (with secrets masked).
// Audit is append-only terminal transitions, for dispute investigation.
var (
	App     *logrus.Logger
	Payment *logrus.Logger
	Audit   *logrus.Logger
)

func Init() {
	App = NewLogger("app")
	Payment = NewLogger("payment")
	Audit = NewLogger("audit")
}
