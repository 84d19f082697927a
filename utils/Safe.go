package utils

import (
	"runtime/debug"

	"github.com/bwayne222/youtube-video-downloader/log"
)

// SafeCall runs call and swallows any panic, logging the stack.
func SafeCall(call func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("SafeCall panic: %v, stack:%s", r, string(debug.Stack()))
		}
	}()
	call()
}
