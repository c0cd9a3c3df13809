//go:build unix

package sys

import (
	"golang.org/x/sys/unix"
	"os"
)

func Fsync(file *os.File) error {
	return unix.Fsync(int(file.Fd()))
}
