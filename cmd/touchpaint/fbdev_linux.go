//go:build linux

package main

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// fbVarScreenInfo mirrors the leading fields of struct fb_var_screeninfo;
// the padding covers the rest of the 160-byte struct.
type fbVarScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	_                        [33]uint32
}

// fbFixScreenInfo mirrors struct fb_fix_screeninfo. The unsigned long fields
// are uintptr so the layout holds on 32- and 64-bit kernels.
type fbFixScreenInfo struct {
	ID                            [16]byte
	SmemStart                     uintptr
	SmemLen                       uint32
	Type, TypeAux, Visual         uint32
	XPanStep, YPanStep, YWrapStep uint16
	_                             uint16
	LineLength                    uint32
	MmioStart                     uintptr
	MmioLen                       uint32
	Accel                         uint32
	Capabilities                  uint16
	Reserved                      [2]uint16
}

// fbdevOutput mirrors the in-memory framebuffer onto a Linux framebuffer
// device through a shared mapping.
type fbdevOutput struct {
	fd     int
	mem    []byte
	path   string
	row    int // bytes per visible row
	stride int // bytes per device line, row plus any padding
}

// openFbdev maps path and checks it is a 16 bpp panel of the given size.
func openFbdev(path string, width, height int) (*fbdevOutput, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var info fbVarScreenInfo
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), fbioGetVScreenInfo, uintptr(unsafe.Pointer(&info))); errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("%s: FBIOGET_VSCREENINFO: %w", path, errno)
	}
	if info.BitsPerPixel != 16 {
		unix.Close(fd)
		return nil, fmt.Errorf("%s: %d bpp, want 16 (RGB565)", path, info.BitsPerPixel)
	}
	if int(info.XRes) != width || int(info.YRes) != height {
		unix.Close(fd)
		return nil, fmt.Errorf("%s: resolution %dx%d, want %dx%d", path, info.XRes, info.YRes, width, height)
	}

	var fix fbFixScreenInfo
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), fbioGetFScreenInfo, uintptr(unsafe.Pointer(&fix))); errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("%s: FBIOGET_FSCREENINFO: %w", path, errno)
	}
	row := width * 2
	stride := int(fix.LineLength)
	if stride == 0 {
		stride = row
	}
	if stride < row {
		unix.Close(fd)
		return nil, fmt.Errorf("%s: line length %d is shorter than a %d byte row", path, stride, row)
	}

	mem, err := unix.Mmap(fd, 0, stride*height, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &fbdevOutput{fd: fd, mem: mem, path: path, row: row, stride: stride}, nil
}

// Present copies a native-orientation RGB565 buffer to the device.
func (o *fbdevOutput) Present(buf []byte) error {
	if err := copyRows(o.mem, buf, o.row, o.stride); err != nil {
		return fmt.Errorf("%s: %w", o.path, err)
	}
	return nil
}

// copyRows copies tightly packed rows of row bytes from src into dst, where
// each line occupies stride bytes.
func copyRows(dst, src []byte, row, stride int) error {
	if row <= 0 || len(src)%row != 0 {
		return fmt.Errorf("buffer of %d bytes is not whole %d byte rows", len(src), row)
	}
	rows := len(src) / row
	if rows*stride > len(dst) {
		return fmt.Errorf("buffer is %d rows, mapping holds %d", rows, len(dst)/stride)
	}
	if stride == row {
		copy(dst, src)
		return nil
	}
	for y := 0; y < rows; y++ {
		copy(dst[y*stride:y*stride+row], src[y*row:(y+1)*row])
	}
	return nil
}

func (o *fbdevOutput) Close() error {
	if err := unix.Munmap(o.mem); err != nil {
		unix.Close(o.fd)
		return fmt.Errorf("munmap %s: %w", o.path, err)
	}
	return unix.Close(o.fd)
}
