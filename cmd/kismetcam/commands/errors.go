// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"errors"

	"github.com/kismetcam/kismetcam/cmd/kismetcam/internal/format"
)

// reportedError marks an error whose summary was already printed.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// reportFailure prints err as a failure summary and returns it marked as
// reported, so main only has to pick the exit code.
func reportFailure(f format.Formatter, operation string, err error) error {
	if err == nil {
		return nil
	}
	_ = f.PrintTotalFailureSummary(operation, err)
	return reportedError{err}
}

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}
