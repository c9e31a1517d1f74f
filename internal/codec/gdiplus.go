//go:build windows && gdiplus

package codec

import (
	"errors"
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/duanzhengbing/parseProtobufFile/internal/format"
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"golang.org/x/sys/windows"
)

// Backend names the compiled-in codec backend.
const Backend = "gdiplus"

var (
	modGdiplus = windows.NewLazySystemDLL("gdiplus.dll")
	modShlwapi = windows.NewLazySystemDLL("shlwapi.dll")

	procGdiplusStartup             = modGdiplus.NewProc("GdiplusStartup")
	procGdiplusShutdown            = modGdiplus.NewProc("GdiplusShutdown")
	procGdipCreateBitmapFromFile   = modGdiplus.NewProc("GdipCreateBitmapFromFile")
	procGdipCreateBitmapFromStream = modGdiplus.NewProc("GdipCreateBitmapFromStream")
	procGdipCreateBitmapFromScan0  = modGdiplus.NewProc("GdipCreateBitmapFromScan0")
	procGdipGetImageWidth          = modGdiplus.NewProc("GdipGetImageWidth")
	procGdipGetImageHeight         = modGdiplus.NewProc("GdipGetImageHeight")
	procGdipBitmapLockBits         = modGdiplus.NewProc("GdipBitmapLockBits")
	procGdipBitmapUnlockBits       = modGdiplus.NewProc("GdipBitmapUnlockBits")
	procGdipDisposeImage           = modGdiplus.NewProc("GdipDisposeImage")
	procGdipSaveImageToFile        = modGdiplus.NewProc("GdipSaveImageToFile")
	procGdipGetImageEncodersSize   = modGdiplus.NewProc("GdipGetImageEncodersSize")
	procGdipGetImageEncoders       = modGdiplus.NewProc("GdipGetImageEncoders")
	procGdipSetImagePalette        = modGdiplus.NewProc("GdipSetImagePalette")
	procSHCreateMemStream          = modShlwapi.NewProc("SHCreateMemStream")
)

const (
	pixelFormat8bppIndexed = 0x00030803
	pixelFormat24bppRGB    = 0x00021808
	pixelFormat32bppARGB   = 0x0026200A

	imageLockModeRead  = 1
	imageLockModeWrite = 2

	paletteFlagsGrayScale = 2

	encoderParameterValueTypeLong = 4
)

// Platform luma weights, in 1/256 units.
const (
	gdiLumaR = 77
	gdiLumaG = 151
	gdiLumaB = 28
)

var encoderQuality = windows.GUID{
	Data1: 0x1d5be4b5,
	Data2: 0xfa4a,
	Data3: 0x452d,
	Data4: [8]byte{0x9c, 0xdd, 0x5d, 0xb3, 0x51, 0x05, 0xe7, 0xeb},
}

type gdiplusStartupInput struct {
	GdiplusVersion           uint32
	DebugEventCallback       uintptr
	SuppressBackgroundThread int32
	SuppressExternalCodecs   int32
}

type gpRect struct {
	X, Y, Width, Height int32
}

type bitmapData struct {
	Width       uint32
	Height      uint32
	Stride      int32
	PixelFormat int32
	Scan0       uintptr
	Reserved    uintptr
}

type imageCodecInfo struct {
	Clsid             windows.GUID
	FormatID          windows.GUID
	CodecName         *uint16
	DllName           *uint16
	FormatDescription *uint16
	FilenameExtension *uint16
	MimeType          *uint16
	Flags             uint32
	Version           uint32
	SigCount          uint32
	SigSize           uint32
	SigPattern        uintptr
	SigMask           uintptr
}

type encoderParameter struct {
	Guid           windows.GUID
	NumberOfValues uint32
	Type           uint32
	Value          uintptr
}

type encoderParameters struct {
	Count     uint32
	Parameter [1]encoderParameter
}

type colorPalette struct {
	Flags   uint32
	Count   uint32
	Entries [256]uint32
}

// gdiStatus is a non-Ok GpStatus.
type gdiStatus uintptr

func (s gdiStatus) Error() string {
	return fmt.Sprintf("gdiplus: status %d", uintptr(s))
}

func call(p *windows.LazyProc, args ...uintptr) error {
	if err := p.Find(); err != nil {
		return err
	}
	r, _, _ := p.Call(args...)
	if r != 0 {
		return gdiStatus(r)
	}
	return nil
}

// Helper decodes and encodes through GDI+. It owns one GDI+ session,
// started by New and shut down by Close.
type Helper struct {
	base
	token uintptr
}

// New starts a GDI+ session.
func New(opts ...Option) (*Helper, error) {
	h := &Helper{base: newBase(opts)}
	in := gdiplusStartupInput{GdiplusVersion: 1}
	if err := call(procGdiplusStartup,
		uintptr(unsafe.Pointer(&h.token)),
		uintptr(unsafe.Pointer(&in)),
		0); err != nil {
		return nil, fmt.Errorf("gdiplus startup: %w", err)
	}
	runtime.SetFinalizer(h, func(h *Helper) { h.Close() })
	return h, nil
}

func (h *Helper) release() error {
	if h.token != 0 {
		procGdiplusShutdown.Call(h.token)
		h.token = 0
	}
	runtime.SetFinalizer(h, nil)
	return nil
}

func (h *Helper) load(path string, layout ir.Layout) (*ir.Image, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	var bmp uintptr
	if err := call(procGdipCreateBitmapFromFile,
		uintptr(unsafe.Pointer(name)),
		uintptr(unsafe.Pointer(&bmp))); err != nil {
		return nil, err
	}
	defer procGdipDisposeImage.Call(bmp)
	return h.fromBitmap(bmp, layout)
}

func (h *Helper) decode(data []byte, layout ir.Layout) (*ir.Image, error) {
	if err := procSHCreateMemStream.Find(); err != nil {
		return nil, err
	}
	stream, _, _ := procSHCreateMemStream.Call(
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)))
	if stream == 0 {
		return nil, errors.New("gdiplus: cannot create memory stream")
	}
	defer releaseStream(stream)

	var bmp uintptr
	if err := call(procGdipCreateBitmapFromStream,
		stream,
		uintptr(unsafe.Pointer(&bmp))); err != nil {
		return nil, err
	}
	defer procGdipDisposeImage.Call(bmp)
	return h.fromBitmap(bmp, layout)
}

// releaseStream calls IUnknown::Release, the third vtable slot.
func releaseStream(stream uintptr) {
	vtbl := *(*[3]uintptr)(unsafe.Pointer(*(*uintptr)(unsafe.Pointer(stream))))
	syscall.SyscallN(vtbl[2], stream)
}

func (h *Helper) fromBitmap(bmp uintptr, layout ir.Layout) (*ir.Image, error) {
	var w, ht uint32
	if err := call(procGdipGetImageWidth, bmp, uintptr(unsafe.Pointer(&w))); err != nil {
		return nil, err
	}
	if err := call(procGdipGetImageHeight, bmp, uintptr(unsafe.Pointer(&ht))); err != nil {
		return nil, err
	}
	if w == 0 || ht == 0 {
		return nil, errors.New("gdiplus: empty image")
	}

	pf := uintptr(pixelFormat24bppRGB)
	if layout == ir.LayoutColorAlpha {
		pf = pixelFormat32bppARGB
	}
	rect := gpRect{Width: int32(w), Height: int32(ht)}
	var bd bitmapData
	if err := call(procGdipBitmapLockBits,
		bmp,
		uintptr(unsafe.Pointer(&rect)),
		imageLockModeRead,
		pf,
		uintptr(unsafe.Pointer(&bd))); err != nil {
		return nil, err
	}
	defer procGdipBitmapUnlockBits.Call(bmp, uintptr(unsafe.Pointer(&bd)))

	img := ir.CreateImage(int(w), int(ht), layout, h.order)
	srcBpp := 3
	if layout == ir.LayoutColorAlpha {
		srcBpp = 4
	}
	for y := 0; y < img.Rows; y++ {
		// Locked rows live in GDI+ memory; copy them out before unlocking.
		row := unsafe.Slice((*byte)(unsafe.Add(unsafe.Pointer(bd.Scan0), y*int(bd.Stride))), img.Cols*srcBpp)
		dst := img.Row(y)
		switch layout {
		case ir.LayoutColor:
			copy(dst, row)
		case ir.LayoutColorAlpha:
			copy(dst, row)
			if h.order == ir.OrderRGBA {
				for x := 0; x < len(dst); x += 4 {
					dst[x], dst[x+2] = dst[x+2], dst[x]
				}
			}
		case ir.LayoutGray:
			for x := 0; x < img.Cols; x++ {
				b, g, r := int(row[3*x]), int(row[3*x+1]), int(row[3*x+2])
				dst[x] = uint8((r*gdiLumaR + g*gdiLumaG + b*gdiLumaB) >> 8)
			}
		}
	}
	return img, nil
}

// encoderCLSID finds the installed encoder for a MIME type.
func encoderCLSID(mime string) (windows.GUID, error) {
	var num, size uint32
	if err := call(procGdipGetImageEncodersSize,
		uintptr(unsafe.Pointer(&num)),
		uintptr(unsafe.Pointer(&size))); err != nil {
		return windows.GUID{}, err
	}
	if num == 0 || size == 0 {
		return windows.GUID{}, errors.New("gdiplus: no image encoders")
	}
	buf := make([]byte, size)
	if err := call(procGdipGetImageEncoders,
		uintptr(num),
		uintptr(size),
		uintptr(unsafe.Pointer(&buf[0]))); err != nil {
		return windows.GUID{}, err
	}
	codecs := unsafe.Slice((*imageCodecInfo)(unsafe.Pointer(&buf[0])), num)
	for _, c := range codecs {
		if windows.UTF16PtrToString(c.MimeType) == mime {
			return c.Clsid, nil
		}
	}
	return windows.GUID{}, fmt.Errorf("gdiplus: no encoder for %s", mime)
}

// scan0 builds a private, 4-byte aligned pixel buffer for img in the
// memory order GDI+ expects for pf.
func scan0(img *ir.Image) (buf []byte, stride int, pf uintptr) {
	bpp := img.Layout.BytesPerPixel()
	stride = (img.Cols*bpp + 3) &^ 3
	buf = make([]byte, stride*img.Rows)
	for y := 0; y < img.Rows; y++ {
		dst := buf[y*stride : y*stride+img.Cols*bpp]
		copy(dst, img.Row(y))
		if img.Layout == ir.LayoutColorAlpha && img.Order == ir.OrderRGBA {
			for x := 0; x < len(dst); x += 4 {
				dst[x], dst[x+2] = dst[x+2], dst[x]
			}
		}
	}
	switch img.Layout {
	case ir.LayoutGray:
		pf = pixelFormat8bppIndexed
	case ir.LayoutColor:
		pf = pixelFormat24bppRGB
	default:
		pf = pixelFormat32bppARGB
	}
	return buf, stride, pf
}

func (h *Helper) save(path string, f format.ImageFormat, img *ir.Image) error {
	mime := "image/png"
	if f == format.JPEG {
		mime = "image/jpeg"
	}
	clsid, err := encoderCLSID(mime)
	if err != nil {
		return err
	}

	buf, stride, pf := scan0(img)
	var bmp uintptr
	if err := call(procGdipCreateBitmapFromScan0,
		uintptr(img.Cols),
		uintptr(img.Rows),
		uintptr(stride),
		pf,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&bmp))); err != nil {
		return err
	}
	defer procGdipDisposeImage.Call(bmp)

	if img.Layout == ir.LayoutGray {
		pal := colorPalette{Flags: paletteFlagsGrayScale, Count: 256}
		for i := range pal.Entries {
			v := uint32(i)
			pal.Entries[i] = 0xFF000000 | v<<16 | v<<8 | v
		}
		if err := call(procGdipSetImagePalette, bmp, uintptr(unsafe.Pointer(&pal))); err != nil {
			return err
		}
	}

	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	var params uintptr
	quality := uint32(h.quality)
	ep := encoderParameters{Count: 1}
	if f == format.JPEG {
		ep.Parameter[0] = encoderParameter{
			Guid:           encoderQuality,
			NumberOfValues: 1,
			Type:           encoderParameterValueTypeLong,
			Value:          uintptr(unsafe.Pointer(&quality)),
		}
		params = uintptr(unsafe.Pointer(&ep))
	}
	err = call(procGdipSaveImageToFile,
		bmp,
		uintptr(unsafe.Pointer(name)),
		uintptr(unsafe.Pointer(&clsid)),
		params)
	runtime.KeepAlive(buf)
	runtime.KeepAlive(&quality)
	return err
}
