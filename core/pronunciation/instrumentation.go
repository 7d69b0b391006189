package pronunciation

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/macca-core/core/pronunciation"

var logger = otelslog.NewLogger(scopeName)
