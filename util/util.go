// Package util is a grab bag for log plumbing shared by the commands.
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/clarktrimble/sabot"

	nt "sifter/entity"
)

// OpenLog opens path for appending, discarding output if that fails.
func OpenLog(path string, mode os.FileMode) (file io.Writer) {

	var err error
	file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s\n", err.Error())
		file = io.Discard
	}

	return
}

func CloseLog(file io.Writer) {

	actually, ok := file.(*os.File)
	if ok {
		actually.Close()
	}
}

// NewLogger returns a structured logger writing json lines to w.
func NewLogger(w io.Writer) nt.Logger {
	return &sabot.Sabot{Writer: w}
}
