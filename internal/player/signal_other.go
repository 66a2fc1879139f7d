//go:build !unix

package player

import (
	"os/exec"

	"github.com/desertthunder/playx/internal/shared"
)

func suspendProcess(int) error {
	return shared.ErrSignalUnsupported
}

func continueProcess(int) error {
	return shared.ErrSignalUnsupported
}

func isolate(*exec.Cmd) {}

func killGroup(int) error {
	return shared.ErrSignalUnsupported
}
