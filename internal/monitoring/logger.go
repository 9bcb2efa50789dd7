package monitoring

import (
	"log"
	"sync/atomic"
)

// Logf журнал диагностики пакета. По умолчанию log.Printf, заменяется через SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

var verbose atomic.Bool

// SetLogger заменяет журнал. nil отключает вывод.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose включает подробные сообщения Debugf.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose включены ли подробные сообщения.
func Verbose() bool {
	return verbose.Load()
}

// Infof информационное сообщение.
func Infof(format string, v ...interface{}) {
	Logf("INFO "+format, v...)
}

// Debugf подробное сообщение, выводится только в режиме verbose.
func Debugf(format string, v ...interface{}) {
	if verbose.Load() {
		Logf("DEBUG "+format, v...)
	}
}

// Errorf сообщение об ошибке.
func Errorf(format string, v ...interface{}) {
	Logf("ERROR "+format, v...)
}
