//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	DWMWA_USE_IMMERSIVE_DARK_MODE = 20
	DWMWA_BORDER_COLOR            = 34
	DWMWA_CAPTION_COLOR           = 35
)

// setDarkTitleBar asks DWM for a dark caption so the title bar matches the
// sky colour instead of the system accent.
func setDarkTitleBar(window *glfw.Window) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}

	var useDarkMode int32 = 1
	setWindowAttribute(uintptr(unsafe.Pointer(hwnd)), DWMWA_USE_IMMERSIVE_DARK_MODE, uintptr(unsafe.Pointer(&useDarkMode)), unsafe.Sizeof(useDarkMode))

	var captionColor uint32 = 0x00202020
	setWindowAttribute(uintptr(unsafe.Pointer(hwnd)), DWMWA_CAPTION_COLOR, uintptr(unsafe.Pointer(&captionColor)), unsafe.Sizeof(captionColor))
	setWindowAttribute(uintptr(unsafe.Pointer(hwnd)), DWMWA_BORDER_COLOR, uintptr(unsafe.Pointer(&captionColor)), unsafe.Sizeof(captionColor))
}

func setWindowAttribute(hwnd uintptr, attribute uintptr, value uintptr, size uintptr) {
	// Older Windows builds reject the attributes; the window keeps its default look.
	procDwmSetWindowAttribute.Call(hwnd, attribute, value, size)
}
