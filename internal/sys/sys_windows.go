//go:build windows

package sys

import "os"

func Fsync(file *os.File) error {
	return file.Sync()
}
