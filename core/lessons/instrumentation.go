package lessons

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/macca-core/core/lessons"

var logger = otelslog.NewLogger(scopeName)
