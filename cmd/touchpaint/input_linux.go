//go:build linux

package main

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

type absInfo struct {
	Value      int32
	Min        int32
	Max        int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

// EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo)
func evioCGAbs(absCode int) uintptr {
	return ioc(iocRead, uint32('E'), uint32(0x40+absCode), uint32(unsafe.Sizeof(absInfo{})))
}

// EVIOCGRAB = _IOW('E', 0x90, int)
func evioCGrab() uintptr {
	return ioc(iocWrite, uint32('E'), 0x90, uint32(unsafe.Sizeof(int32(0))))
}

func getAbsInfo(fd int, absCode int) (absInfo, error) {
	var info absInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGAbs(absCode), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return absInfo{}, errno
	}
	return info, nil
}

// touchDevice is an opened evdev touchscreen.
type touchDevice struct {
	file        *os.File
	x, y        absInfo
	pressure    absInfo
	hasPressure bool
}

// openTouchDevice opens path read-only, reads its axis ranges and optionally
// grabs it so no other consumer sees the touches.
func openTouchDevice(path string, grab bool) (*touchDevice, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	dev := &touchDevice{file: os.NewFile(uintptr(fd), path)}

	if dev.x, err = getAbsInfo(fd, ABS_X); err != nil {
		dev.file.Close()
		return nil, fmt.Errorf("%s: no ABS_X axis: %w", path, err)
	}
	if dev.y, err = getAbsInfo(fd, ABS_Y); err != nil {
		dev.file.Close()
		return nil, fmt.Errorf("%s: no ABS_Y axis: %w", path, err)
	}
	if p, err := getAbsInfo(fd, ABS_PRESSURE); err == nil && p.Max > p.Min {
		dev.pressure = p
		dev.hasPressure = true
	}

	if grab {
		var one int32 = 1
		if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGrab(), uintptr(unsafe.Pointer(&one))); errno != 0 {
			dev.file.Close()
			return nil, fmt.Errorf("grab %s: %w", path, errno)
		}
	}
	return dev, nil
}

func (d *touchDevice) Close() error { return d.file.Close() }

// logAttrs describes the axis ranges for the startup log line.
func (d *touchDevice) logAttrs() []any {
	return []any{
		"x_min", d.x.Min, "x_max", d.x.Max,
		"y_min", d.y.Min, "y_max", d.y.Max,
		"pressure_axis", d.hasPressure,
		"pressure_min", d.pressure.Min, "pressure_max", d.pressure.Max,
	}
}
