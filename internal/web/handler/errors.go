package handler

import "errors"

// ErrNilEnv is returned by Init when the app or the environment is incomplete.
var ErrNilEnv = errors.New(ErrNilEnvFatalLogMsg)
