package api

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger replaces the logger used by the package level helpers. It is
// not safe to call concurrently with proving or verifying.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
