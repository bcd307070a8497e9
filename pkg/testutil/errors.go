package testutil

import "os/exec"

var errNotFound = &exec.Error{Name: "fake", Err: exec.ErrNotFound}
