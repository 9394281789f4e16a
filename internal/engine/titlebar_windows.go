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
	dwmwaUseImmersiveDarkMode = 20
	dwmwaCaptionColor         = 35
)

// styleTitleBar darkens the native caption to match the black viewport.
func styleTitleBar(window *glfw.Window) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}
	setAttribute(uintptr(unsafe.Pointer(hwnd)), dwmwaUseImmersiveDarkMode, 1)
	setAttribute(uintptr(unsafe.Pointer(hwnd)), dwmwaCaptionColor, 0x00000000)
}

func setAttribute(hwnd uintptr, attr uintptr, value uint32) {
	procDwmSetWindowAttribute.Call(
		hwnd,
		attr,
		uintptr(unsafe.Pointer(&value)),
		unsafe.Sizeof(value),
	)
}
